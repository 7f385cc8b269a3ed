package pipeline

// ProgressFunc receives informational (stage, percent) updates at each step
// boundary. It never affects control flow.
type ProgressFunc func(stage string, percent float64)

// Progress stages emitted during a pipeline run.
const (
	StageStarting   = "STARTING"
	StageThumbnail  = "THUMBNAIL_GENERATION"
	StageTranscribe = "TRANSCRIBING"
	StageAnalyze    = "ANALYZING"
	StageTranslate  = "TRANSLATING"
	StageCompleted  = "COMPLETED"
	StageError      = "ERROR"
)

const (
	percentStarting   = 0
	percentThumbnail  = 5
	percentTranscribe = 10
	percentAnalyze    = 50
	percentTranslate  = 80
	percentCompleted  = 100
)

// emit forwards a progress update when a callback is present.
func (r Request) emit(stage string, percent float64) {
	if r.Progress != nil {
		r.Progress(stage, percent)
	}
}
