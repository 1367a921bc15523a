package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryTransitions(t *testing.T) {
	tests := []struct {
		from, to SummaryStatus
		allowed  bool
	}{
		{SummaryStatusPending, SummaryStatusProcessing, true},
		{SummaryStatusProcessing, SummaryStatusCompleted, true},
		{SummaryStatusProcessing, SummaryStatusFailed, true},
		{SummaryStatusFailed, SummaryStatusProcessing, true},
		{SummaryStatusCompleted, SummaryStatusProcessing, true},
		{SummaryStatusPending, SummaryStatusCompleted, false},
		{SummaryStatusPending, SummaryStatusFailed, false},
		{SummaryStatusProcessing, SummaryStatusProcessing, false},
		{SummaryStatusFailed, SummaryStatusCompleted, false},
		{SummaryStatusCompleted, SummaryStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestQATransitions(t *testing.T) {
	tests := []struct {
		from, to QAStatus
		allowed  bool
	}{
		{QAStatusIdle, QAStatusProcessing, true},
		{QAStatusProcessing, QAStatusCompleted, true},
		{QAStatusProcessing, QAStatusFailed, true},
		{QAStatusFailed, QAStatusProcessing, true},
		{QAStatusIdle, QAStatusCompleted, false},
		{QAStatusIdle, QAStatusFailed, false},
		{QAStatusProcessing, QAStatusIdle, false},
		{QAStatusFailed, QAStatusIdle, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseSummaryStatus("failed")
	assert.NoError(t, err)
	assert.Equal(t, SummaryStatusFailed, s)

	_, err = ParseSummaryStatus("idle")
	assert.Error(t, err)

	q, err := ParseQAStatus("idle")
	assert.NoError(t, err)
	assert.Equal(t, QAStatusIdle, q)

	_, err = ParseQAStatus("pending")
	assert.Error(t, err)
}
