package dto

// Requests and reduced schemas for the external ranking model. Jobs and
// candidates are cut down before leaving the process to bound payload
// size; see ai.SlimJob / ai.SlimCandidate for the wire shapes.

type GenerateJobDescriptionRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Company string `json:"company" validate:"required,max=200"`
	Skills  string `json:"skills" validate:"required,max=1000"`
}

type GeneratedJobDescription struct {
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

type EnhanceCoverLetterRequest struct {
	Draft    string `json:"draft" validate:"required,max=10000"`
	JobTitle string `json:"jobTitle" validate:"required,max=200"`
}

type EnhancedCoverLetter struct {
	Text string `json:"text"`
}

type JobRecommendation struct {
	JobID  string `json:"jobId"`
	Reason string `json:"reason"`
}

type CandidateRecommendation struct {
	UserID     string  `json:"userId"`
	MatchScore float64 `json:"matchScore"`
	Reason     string  `json:"reason"`
}
