package llm

import (
	"fmt"
	"strings"
)

// MaxDocumentChars bounds how much document text is embedded in a prompt.
// Excess is truncated, not summarized, to respect model context limits.
const MaxDocumentChars = 8000

// Truncate clips s to at most n bytes.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// BuildEmailPrompt composes the extraction prompt for a job-related email.
// The body may be raw HTML; the model is told so.
func BuildEmailPrompt(subject, body string) string {
	var b strings.Builder
	b.WriteString(`Analyze the following email (which may be HTML) and extract job application information.
This email is about a job application - extract the company name and position from the subject line and email body.

IMPORTANT:
- Extract the FULL company name (e.g., "Intercontinental Exchange, Inc." not just "ICE")
- Extract the FULL position title from the subject or body
- If the email says "Thank you for your application" or similar, this is a confirmation email for an application
- Status should be "pending" for confirmation emails unless explicitly stated otherwise

Return a JSON object with the following fields if available:
- company_name: Full name of the company (extract from subject line or email body)
- position: Complete job position/title (extract from subject line or email body)
- applied_date: Date when the application was submitted (format: YYYY-MM-DD or YYYY-MM-DD HH:MM) - only if explicitly mentioned in the email
- status: One of: "pending", "interview", "rejected", "accepted" (default to "pending" for confirmation emails)
- interview_date: Date and time if interview is scheduled (format: YYYY-MM-DD HH:MM or YYYY-MM-DD)
- rejection_date: Date if rejection mentioned (format: YYYY-MM-DD)
- rejection_reason: Reason for rejection if mentioned
- job_url: URL to job posting if mentioned
- contact_email: Contact email if mentioned
- location: Job location if mentioned
- salary_range: Salary range if mentioned
- notes: Any additional relevant information

`)
	b.WriteString("Email Subject: ")
	b.WriteString(subject)
	b.WriteString("\nEmail Body: ")
	b.WriteString(Truncate(body, MaxDocumentChars))
	b.WriteString("\n\nReturn ONLY valid JSON, no additional text. If information is not available, use null for that field.")
	return b.String()
}

// BuildImagePrompt composes the extraction prompt for a job posting image.
func BuildImagePrompt() string {
	return `Analyze this job posting image and extract the following information.
Return a JSON object with these fields if available:
- company_name: Name of the company
- position: Job position/title
- location: Job location (city, state, remote, etc.)
- job_url: URL to job posting if visible
- contact_email: Contact email if mentioned
- salary_range: Salary range if mentioned
- notes: Any additional relevant information from the posting

Return ONLY valid JSON, no additional text. If information is not available, use null for that field.`
}

// BuildPortfolioPrompt composes the structured-profile extraction prompt
// for free-form resume or portfolio text.
func BuildPortfolioPrompt(portfolioText string) string {
	return fmt.Sprintf(`You are an expert at extracting structured information from resumes, CVs, and portfolio text.
Extract all relevant information and return it as a valid JSON object. Be thorough and accurate.

Return a JSON object with this structure:
%s

Portfolio Text:
%s

Return ONLY valid JSON, no additional text or markdown formatting.`, resumeShape, Truncate(portfolioText, MaxDocumentChars))
}

// BuildResumePrompt composes the tailored-resume generation prompt.
// baseContext is the grounding text (an existing resume or the stored
// profile serialized as JSON); it may be empty, in which case the model
// works from the job description alone.
func BuildResumePrompt(jobDescription, baseContext string) string {
	var b strings.Builder
	if baseContext != "" {
		b.WriteString(`Based on the following job description and my profile information, create a tailored resume that highlights ONLY the most relevant skills, experiences, projects, publications, awards, and achievements for this specific job. Exclude anything that is not directly relevant.

Job Description:
`)
		b.WriteString(Truncate(jobDescription, MaxDocumentChars))
		b.WriteString("\n\n")
		b.WriteString(baseContext)
		b.WriteString(`

IMPORTANT: Only include information that is relevant to this job. Tailor the summary to match the job requirements and select only the most relevant experiences and projects.
`)
	} else {
		b.WriteString(`Based on the following job description, create a professional resume that matches the requirements.

Job Description:
`)
		b.WriteString(Truncate(jobDescription, MaxDocumentChars))
		b.WriteString("\n")
	}
	b.WriteString("\nCreate a professional resume in the following JSON format:\n")
	b.WriteString(resumeShape)
	b.WriteString("\n\nReturn ONLY valid JSON, no additional text.")
	return b.String()
}

// resumeShape is the JSON structure the model is asked to fill for both
// portfolio extraction and resume generation.
const resumeShape = `{
  "personal_info": {
    "name": "Full Name",
    "email": "email@example.com",
    "phone": "Phone Number",
    "location": "City, State",
    "linkedin": "LinkedIn URL (optional)",
    "portfolio": "Portfolio URL (optional)",
    "github": "GitHub URL (optional)"
  },
  "summary": "Professional summary (2-3 sentences highlighting key qualifications)",
  "skills": ["Skill 1", "Skill 2", "Skill 3"],
  "experience": [
    {
      "title": "Job Title",
      "company": "Company Name",
      "location": "City, State",
      "start_date": "MM/YYYY",
      "end_date": "MM/YYYY or Present",
      "description": ["Achievement 1", "Achievement 2"]
    }
  ],
  "education": [
    {
      "degree": "Degree Name",
      "school": "School Name",
      "location": "City, State",
      "graduation_date": "YYYY",
      "gpa": "GPA (optional)",
      "honors": "Honors (optional)"
    }
  ],
  "projects": [
    {
      "name": "Project Name",
      "description": "Project description",
      "technologies": ["Tech 1", "Tech 2"],
      "url": "Project URL (optional)"
    }
  ],
  "certifications": [
    {
      "name": "Certification Name",
      "issuer": "Issuing Organization",
      "date": "MM/YYYY",
      "expiry": "MM/YYYY (optional)"
    }
  ],
  "publications": [
    {
      "title": "Publication Title",
      "authors": "Author names",
      "journal": "Journal/Conference Name",
      "date": "MM/YYYY",
      "url": "URL (optional)"
    }
  ],
  "awards": [
    {
      "name": "Award Name",
      "issuer": "Issuing Organization",
      "date": "MM/YYYY",
      "description": "Description (optional)"
    }
  ],
  "volunteer_work": [
    {
      "organization": "Organization Name",
      "role": "Role/Position",
      "location": "City, State",
      "start_date": "MM/YYYY",
      "end_date": "MM/YYYY or Present",
      "description": "Description"
    }
  ]
}`
