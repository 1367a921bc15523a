package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/pkg/llm"
)

// aiFailure turns a provider error into the message stored on the note and
// returned to the caller. fallback covers provider errors with no better
// wording.
func aiFailure(err error, fallback string) *apperr.Error {
	var netErr *llm.NetworkError
	var parseErr *llm.ParsingError

	switch {
	case llm.IsRateLimited(err):
		msg := constant.MsgAIRateLimited
		if wait := llm.RetryAfterHint(err); wait > 0 {
			msg = fmt.Sprintf(constant.MsgAIRateLimitedRetryIn, int(math.Ceil(wait.Seconds())))
		}
		return apperr.UpstreamAI(msg, err)
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return apperr.UpstreamAI(constant.MsgAIUnreachable, err)
	case errors.As(err, &parseErr):
		return apperr.UpstreamAI(constant.MsgAIParseFailed, err)
	default:
		return apperr.UpstreamAI(fallback, err)
	}
}
