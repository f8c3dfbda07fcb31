package controllers

import (
	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/ws"
)

// Publisher is the part of the event hub the controllers need.
type Publisher interface {
	Publish(kind, topic string, data interface{})
}

// BroadcastExamEvent pushes a stored exam event to subscribers of its
// session and of the whole feed.
func BroadcastExamEvent(pub Publisher) func(*models.ExamEvent) {
	return func(ev *models.ExamEvent) {
		if pub == nil {
			return
		}
		pub.Publish(ws.KindExamEvent, ws.ExamSessionTopic(ev.ExamSessionID), ev)
	}
}

func BroadcastSubmissionEvent(pub Publisher) func(*models.SubmissionEvent) {
	return func(ev *models.SubmissionEvent) {
		if pub == nil {
			return
		}
		pub.Publish(ws.KindSubmissionEvent, ws.SubmissionTopic(ev.SubmissionID), ev)
	}
}
