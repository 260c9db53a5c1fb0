package tracing

// Span names.
const (
	SpanDragSession = "drag.session"
	SpanReplay      = "replay.script"
)

// Span attribute keys for drag sessions.
const (
	AttrSessionID = "drag.session.id"
	AttrHandle    = "drag.handle"
	AttrTarget    = "drag.target"
	AttrResult    = "drag.result"
	AttrForced    = "drag.forced"
	AttrStartX    = "drag.start_x"
	AttrStartY    = "drag.start_y"
	AttrX         = "drag.x"
	AttrY         = "drag.y"

	AttrScript = "replay.script"
	AttrSteps  = "replay.steps"
)
