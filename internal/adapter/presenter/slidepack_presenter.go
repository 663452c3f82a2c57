package presenter

import (
	"github.com/slidecast-team/slidecast/internal/adapter/dto/course"
	"github.com/slidecast-team/slidecast/internal/adapter/dto/slidepack"
	"github.com/slidecast-team/slidecast/internal/domain/entities"
)

// ToSlideResponse converts a Slide entity to its response DTO
func ToSlideResponse(s *entities.Slide) slidepack.SlideResponse {
	return slidepack.SlideResponse{
		ID:             s.SlideID,
		TimestampStart: s.TimestampStart,
		TimestampEnd:   s.TimestampEnd,
		Title:          s.Title,
		Content:        s.Content,
		MathFormulas:   s.MathFormulas,
		DeepDive:       s.DeepDive,
	}
}

// ToCardResponse converts a Card entity to its response DTO
func ToCardResponse(c *entities.Card) slidepack.CardResponse {
	return slidepack.CardResponse{
		ID:           c.CardID,
		Kind:         string(c.Kind),
		Question:     c.Question,
		Hint:         c.Hint,
		Answer:       c.Answer,
		Options:      c.Options,
		CorrectIndex: c.CorrectIndex,
		Explanation:  c.Explanation,
	}
}

// ToSlidePackResponse converts a SlidePack entity to its response DTO.
// audioURL is presigned by the caller; pass "" when not needed (listings).
func ToSlidePackResponse(p *entities.SlidePack, audioURL string) *slidepack.SlidePackResponse {
	if p == nil {
		return nil
	}

	response := &slidepack.SlidePackResponse{
		ID:            p.ID.String(),
		Title:         p.Title,
		Status:        string(p.Status),
		ErrorDetail:   p.ErrorDetail,
		OrderIndex:    p.OrderIndex,
		AudioURL:      audioURL,
		AudioDuration: p.AudioDuration,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.CourseID != nil {
		id := p.CourseID.String()
		response.CourseID = &id
	}
	for i := range p.Slides {
		response.Slides = append(response.Slides, ToSlideResponse(&p.Slides[i]))
	}
	for i := range p.Cards {
		response.Cards = append(response.Cards, ToCardResponse(&p.Cards[i]))
	}
	return response
}

// ToSlidePackListResponse converts a pack listing page
func ToSlidePackListResponse(packs []*entities.SlidePack, total int64, page, pageSize int) *slidepack.SlidePackListResponse {
	responses := make([]*slidepack.SlidePackResponse, len(packs))
	for i, p := range packs {
		responses[i] = ToSlidePackResponse(p, "")
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &slidepack.SlidePackListResponse{
		Packs:      responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// ToJobResponse converts a Job entity to its response DTO
func ToJobResponse(j *entities.Job) slidepack.JobResponse {
	return slidepack.JobResponse{
		ID:          j.ID.String(),
		Kind:        string(j.Kind),
		SlidePackID: j.TargetSlidePackID.String(),
		Status:      string(j.Status),
		ErrorDetail: j.ErrorDetail,
		StartedAt:   j.StartedAt,
		CreatedAt:   j.CreatedAt,
	}
}

// ToPendingJobsResponse converts the pending jobs listing
func ToPendingJobsResponse(jobs []entities.Job) *slidepack.PendingJobsResponse {
	response := &slidepack.PendingJobsResponse{Jobs: []slidepack.JobResponse{}}
	for i := range jobs {
		response.Jobs = append(response.Jobs, ToJobResponse(&jobs[i]))
	}
	return response
}

// ToCourseResponse converts a Course entity to its response DTO
func ToCourseResponse(c *entities.Course) *course.CourseResponse {
	if c == nil {
		return nil
	}
	response := &course.CourseResponse{
		ID:        c.ID.String(),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for i := range c.SlidePacks {
		response.SlidePacks = append(response.SlidePacks, ToSlidePackResponse(&c.SlidePacks[i], ""))
	}
	return response
}

// CardsFromPayload converts replace-cards payloads into Card entities
func CardsFromPayload(payloads []slidepack.CardPayload) []entities.Card {
	cards := make([]entities.Card, 0, len(payloads))
	for _, p := range payloads {
		cards = append(cards, entities.Card{
			CardID:       p.ID,
			Kind:         entities.CardKind(p.Kind),
			Question:     p.Question,
			Hint:         p.Hint,
			Answer:       p.Answer,
			Options:      p.Options,
			CorrectIndex: p.CorrectIndex,
			Explanation:  p.Explanation,
		})
	}
	return cards
}
