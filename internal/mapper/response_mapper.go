package mapper

import (
	"learnflow-be/internal/dto"
	"learnflow-be/internal/entity"
)

// NoteToResponse builds the client view of a note. Question sets are only
// exposed once generation has completed.
func NoteToResponse(n *entity.Note) dto.NoteResponse {
	res := dto.NoteResponse{
		Id:                  n.Id,
		UserId:              n.UserId,
		CategoryId:          n.CategoryId,
		Content:             n.Content,
		Summary:             n.Summary,
		KeyPoints:           n.KeyPoints,
		SummaryStatus:       string(n.SummaryStatus),
		SummaryErrorMessage: n.SummaryErrorMessage,
		QAStatus:            string(n.QAStatus),
		QAErrorMessage:      n.QAErrorMessage,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
		QASets:              []dto.QASetResponse{},
	}

	if n.Category != nil {
		res.Category = &dto.CategorySummary{Id: n.Category.Id, Name: n.Category.Name}
	}

	if n.QAStatus == entity.QAStatusCompleted {
		for _, set := range n.QASets {
			res.QASets = append(res.QASets, qaSetToResponse(set))
		}
	}
	return res
}

func NotesToResponse(notes []*entity.Note) []dto.NoteResponse {
	res := make([]dto.NoteResponse, len(notes))
	for i, n := range notes {
		res[i] = NoteToResponse(n)
	}
	return res
}

func qaSetToResponse(s *entity.QASet) dto.QASetResponse {
	questions := make([]dto.QuestionResponse, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = dto.QuestionResponse{
			Id:            q.Id,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectOption: q.CorrectOption,
		}
	}
	return dto.QASetResponse{Id: s.Id, CreatedAt: s.CreatedAt, Questions: questions}
}

func CategoryToResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		Id:          c.Id,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
