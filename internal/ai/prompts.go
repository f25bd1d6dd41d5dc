package ai

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Reduced schemas sent to the ranking model. Full rows never leave the
// process; descriptions are truncated to bound payload size.

type SlimJob struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type SlimCandidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Bio        string   `json:"bio"`
}

type SeekerProfile struct {
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Bio        string   `json:"bio"`
}

type JobProfile struct {
	Title        string   `json:"title"`
	Requirements []string `json:"requirements"`
	Tags         []string `json:"tags"`
}

// DescriptionLimit caps how much of a job description is sent to the
// ranking model.
const DescriptionLimit = 200

// Truncate cuts s to at most limit bytes without splitting a rune, so
// the payload stays valid UTF-8.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func JobDescriptionPrompt(title, company, skills string) string {
	return fmt.Sprintf(`Write a professional and engaging job description for a %q position at %q.
The role involves the following key skills or focus areas: %s.

Return the response as raw JSON (no markdown fences) with two fields:
1. "description": A 2-3 paragraph summary of the role, responsibilities, and why it's exciting.
2. "requirements": An array of strings listing 5-7 bullet points for qualifications.`,
		title, company, skills)
}

func CoverLetterPrompt(draft, jobTitle string) string {
	return fmt.Sprintf(`Rewrite the following cover letter draft to be more professional and tailored for a %q position.
Keep it concise (under 200 words). Return only the rewritten letter, no commentary.

Draft: %q`, jobTitle, draft)
}

func RecommendJobsPrompt(profile SeekerProfile, jobs []SlimJob) string {
	profileJSON, _ := json.Marshal(profile)
	jobsJSON, _ := json.Marshal(jobs)
	return fmt.Sprintf(`Act as a career recruiter.
User Profile: %s
Available Jobs: %s

Recommend the top 3 most relevant jobs for this user based on their skills and experience.
Return raw JSON (no markdown fences): an array of objects with "jobId" and a short "reason" (1 sentence) for the recommendation.`,
		profileJSON, jobsJSON)
}

func RecommendCandidatesPrompt(job JobProfile, candidates []SlimCandidate) string {
	jobJSON, _ := json.Marshal(job)
	candidatesJSON, _ := json.Marshal(candidates)
	return fmt.Sprintf(`Act as a HR specialist.
Job Requirement: %s
Candidates: %s

Identify the top candidates who match this job.
Return raw JSON (no markdown fences): an array of objects with:
- "userId": string
- "matchScore": number (0-100)
- "reason": string (brief explanation of fit)

Only return candidates with a matchScore > 50.`,
		jobJSON, candidatesJSON)
}
