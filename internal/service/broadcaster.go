package service

import "inspectkit/internal/model"

// Broadcaster pushes live template updates to preview clients. Implemented
// by the WebSocket hub; a nil broadcaster disables live preview.
type Broadcaster interface {
	BroadcastTemplateUpdated(templateID string, tpl *model.Template)
}
