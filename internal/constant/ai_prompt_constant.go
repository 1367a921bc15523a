package constant

const (
	SummarySchemaName = "generate_summary"
	QASchemaName      = "generate_qa"

	SummaryTemperature = 0.7
	QATemperature      = 0.7
)

const SummarySystemPrompt = `You are a professional summarizer. Create a concise summary of the provided text.
The summary should be no longer than 150 characters.
Focus on the main points and key information.
Also list the key points of the text and report its word count.`

const QASystemPrompt = `You are a professional educator and question generator.
Create multiple choice questions (ABCD format) based on the provided text content.
Each question should:
1. Test understanding of key concepts and important details from the text
2. Have exactly 4 options (A, B, C, D)
3. Have one clear correct answer
4. Be challenging but fair
5. Be clear and unambiguous
6. Cover different aspects of the content to ensure comprehensive understanding
7. Use proper grammar and professional language
8. Avoid trick questions or deliberately misleading options
9. Include at least one question that tests higher-order thinking skills

Generate at least 3 questions, but no more than 5 questions.
Each incorrect option should be plausible but clearly incorrect when compared to the text.

Format each question as a JSON object with:
- question: the question text
- options: object with A, B, C, D keys for each option
- correct_option: the letter of the correct answer (A, B, C, or D)`

// SummarySchema is the strict JSON schema for summary output.
var SummarySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summary":   map[string]interface{}{"type": "string"},
		"keyPoints": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"wordCount": map[string]interface{}{"type": "integer"},
	},
	"required":             []string{"summary", "keyPoints", "wordCount"},
	"additionalProperties": false,
}

// QASchema is the strict JSON schema for question set output.
var QASchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"questions": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"question": map[string]interface{}{"type": "string"},
					"options": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"A": map[string]interface{}{"type": "string"},
							"B": map[string]interface{}{"type": "string"},
							"C": map[string]interface{}{"type": "string"},
							"D": map[string]interface{}{"type": "string"},
						},
						"required":             []string{"A", "B", "C", "D"},
						"additionalProperties": false,
					},
					"correct_option": map[string]interface{}{"type": "string", "enum": []string{"A", "B", "C", "D"}},
				},
				"required":             []string{"question", "options", "correct_option"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"questions"},
	"additionalProperties": false,
}
