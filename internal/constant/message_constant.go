package constant

// User-facing messages. They end up in API error bodies and in the
// *_error_message columns clients render.
const (
	MsgNoteNotFound         = "Note not found or access denied"
	MsgInvalidNoteID        = "Invalid note ID format."
	MsgNoteContentLength    = "Note content must be between 300 and 10000 characters"
	MsgNoteTooShortForAI    = "Note content must be at least 300 characters long to generate a summary"
	MsgNoteTooShortForQA    = "Note content must be at least 300 characters long to generate questions"
	MsgInvalidCategory      = "Invalid category selected"
	MsgCategoryIDRequired   = "categoryId is required"
	MsgInvalidCategoryID    = "Invalid category ID format."
	MsgCategoryNotFound     = "Category not found"
	MsgSummaryInProgress    = "This note is already being summarized. Please wait."
	MsgQAInProgress         = "Questions are already being generated for this note. Please wait."
	MsgAIRateLimited        = "AI service rate limit reached. Please try again in a few minutes."
	MsgAIRateLimitedRetryIn = "AI service rate limit reached. Please try again in %d seconds."
	MsgAIParseFailed        = "Failed to process AI response. Please try again."
	MsgSummaryAIFailed      = "Failed to generate summary. The AI model encountered an error."
	MsgQAAIFailed           = "Failed to generate Q&A. The AI service encountered an error."
	MsgAIUnreachable        = "Could not reach the AI service. Please try again later."
	MsgSummarySaveFailed    = "Failed to save the generated summary"
	MsgQASaveFailed         = "Failed to save the generated questions"
	MsgStartFailed          = "Failed to start processing"
	MsgProcessingTimedOut   = "Processing was interrupted. Please retry."
	MsgQAStarted            = "Q&A generation started successfully"
)

const (
	MsgEmailRegistered    = "Email already registered"
	MsgRegistered         = "Registration successful"
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoggedOut          = "Logged out successfully"
	MsgNotAuthenticated   = "Not authenticated"
	MsgResetLinkSent      = "If an account exists for this email, a password reset link has been sent"
	MsgInvalidResetToken  = "Invalid or expired reset token"
	MsgPasswordResetDone  = "Password has been reset successfully"
)
