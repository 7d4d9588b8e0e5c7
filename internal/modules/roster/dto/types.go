package dto

type AddPatientInput struct {
	Name           string
	BirthDate      string
	TargetSounds   []string
	TargetPatterns []string
}

type UpdateTargetsInput struct {
	PatientID      string
	TargetSounds   []string
	TargetPatterns []string
}

type CreditTokensInput struct {
	PatientID string
	Tokens    int
	SessionID string
}

type ReindexInput struct{}

type PatientOutput struct {
	ID           string
	Name         string
	Slug         string
	NotePath     string
	TokenBalance int
}

type PatientDetailOutput struct {
	ID             string
	Name           string
	BirthDate      string
	TargetSounds   []string
	TargetPatterns []string
	TokenBalance   int
	NotePath       string
	Status         string
	LastSessionID  string
}
