package entity

import "fmt"

type SummaryStatus string
type QAStatus string

const (
	SummaryStatusPending    SummaryStatus = "pending"
	SummaryStatusProcessing SummaryStatus = "processing"
	SummaryStatusCompleted  SummaryStatus = "completed"
	SummaryStatusFailed     SummaryStatus = "failed"

	QAStatusIdle       QAStatus = "idle"
	QAStatusProcessing QAStatus = "processing"
	QAStatusCompleted  QAStatus = "completed"
	QAStatusFailed     QAStatus = "failed"
)

// Job names one of the two independent status axes of a note.
type Job string

const (
	JobSummary Job = "summary"
	JobQA      Job = "qa"
)

var summaryTransitions = map[SummaryStatus][]SummaryStatus{
	SummaryStatusPending:    {SummaryStatusProcessing},
	SummaryStatusProcessing: {SummaryStatusCompleted, SummaryStatusFailed},
	SummaryStatusFailed:     {SummaryStatusProcessing},
	// explicit regenerate
	SummaryStatusCompleted: {SummaryStatusProcessing},
}

var qaTransitions = map[QAStatus][]QAStatus{
	QAStatusIdle:       {QAStatusProcessing},
	QAStatusProcessing: {QAStatusCompleted, QAStatusFailed},
	QAStatusFailed:     {QAStatusProcessing},
	QAStatusCompleted:  {QAStatusProcessing},
}

func (s SummaryStatus) Valid() bool {
	_, ok := summaryTransitions[s]
	return ok
}

func (s SummaryStatus) CanTransition(to SummaryStatus) bool {
	for _, next := range summaryTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s QAStatus) Valid() bool {
	_, ok := qaTransitions[s]
	return ok
}

func (s QAStatus) CanTransition(to QAStatus) bool {
	for _, next := range qaTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func ParseSummaryStatus(v string) (SummaryStatus, error) {
	s := SummaryStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown summary status %q", v)
	}
	return s, nil
}

func ParseQAStatus(v string) (QAStatus, error) {
	s := QAStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown qa status %q", v)
	}
	return s, nil
}
