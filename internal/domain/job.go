package domain

// RenderJob tracks one remote video-rendering request for the duration of a
// single pipeline run. It is owned by the polling engine and never persisted.
type RenderJob struct {
	JobID        string    `json:"job_id"`
	ImageAssetID string    `json:"image_asset_id"`
	AudioAssetID string    `json:"audio_asset_id"`
	Status       JobStatus `json:"status"`
	Attempts     int       `json:"attempts"`
	// ResultURL is set if and only if Status is READY.
	ResultURL string `json:"result_url,omitempty"`
}

// AudioResult is the audio stage output handed to the video stage.
type AudioResult struct {
	Data       []byte `json:"-"`
	FileName   string `json:"file_name"`
	SizeBytes  int    `json:"size_bytes"`
	SizeKB     int    `json:"size_kb"`
	WordCount  int    `json:"word_count"`
	EstimatedS int    `json:"estimated_duration_s"`
}

// AudioWordsPerSecond is the speaking-rate constant for the audio-stage
// duration estimate. It differs from ScriptWordsPerSecond on purpose: the
// two estimates are computed at different stages for different consumers.
const AudioWordsPerSecond = 2.5

// VideoResult is the final artifact bundle returned by a completed run.
type VideoResult struct {
	GenerationID string `json:"generation_id"`
	ImageAssetID string `json:"image_asset_id"`
	AudioAssetID string `json:"audio_asset_id"`
	FileName     string `json:"file_name"`
	Path         string `json:"path"`
	SizeBytes    int    `json:"size_bytes"`
	CaptionPath  string `json:"caption_path,omitempty"`
	ResultURL    string `json:"result_url"`
}
