package notesync

import "learnflow-be/internal/entity"

// StatusView is how one job axis of a note is rendered.
type StatusView struct {
	Label     string
	Detail    string
	Busy      bool
	Retryable bool
	Ready     bool
}

// Describe renders either axis. Both share processing, completed and
// failed; pending and idle are the respective initial states.
func Describe(job entity.Job, status string, errMsg *string) StatusView {
	noun := "Summary"
	action := "summary"
	if job == entity.JobQA {
		noun = "Questions"
		action = "questions"
	}

	switch status {
	case "pending":
		return StatusView{Label: "Waiting", Detail: "Summary will be generated shortly", Busy: true}
	case "idle":
		return StatusView{Label: "Not generated", Detail: "Generate questions to test yourself", Retryable: true}
	case "processing":
		return StatusView{Label: "Generating", Detail: "Generating " + action + "...", Busy: true}
	case "completed":
		return StatusView{Label: noun + " ready", Ready: true, Retryable: true}
	case "failed":
		detail := "Something went wrong"
		if errMsg != nil && *errMsg != "" {
			detail = *errMsg
		}
		return StatusView{Label: "Failed", Detail: detail, Retryable: true}
	default:
		return StatusView{Label: "Unknown", Detail: status}
	}
}
