package dto

type AssessorInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Builtin bool
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type AssessInput struct {
	Assessor      string
	TargetSound   string
	TargetWord    string
	Transcription string
	Difficulty    int
	Attempt       int
}

type AssessOutput struct {
	Assessor        string
	Recognized      bool
	Clarity         int
	Accuracy        int
	Notes           string
	SuggestedTokens int
}
