package domain

// ServiceType identifier of a counseling service from the catalog
type ServiceType string

const (
	ServiceOrientationSession   ServiceType = "ORIENTATION_SESSION"
	ServiceCareerCoaching       ServiceType = "CAREER_COACHING"
	ServiceCVReview             ServiceType = "CV_REVIEW"
	ServiceInterviewPreparation ServiceType = "INTERVIEW_PREPARATION"
	ServiceSkillsAssessment     ServiceType = "SKILLS_ASSESSMENT"
	ServiceStudyAbroad          ServiceType = "STUDY_ABROAD"
)

// QuoteOnRequestPrice catalog price value meaning "price on request"
const QuoteOnRequestPrice = "sur devis"

// ServiceEntry catalog entry, read-only for the booking pipeline
type ServiceEntry struct {
	ID            ServiceType
	NameFR        string
	NameEN        string
	DescriptionFR string
	DescriptionEN string
	Price         string // "150", "150 TND", "sur devis"
	Active        bool
	DisplayOrder  int
}
