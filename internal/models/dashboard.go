package models

// DashboardStats is the admin console overview.
type DashboardStats struct {
	TotalUsers          int64               `json:"totalUsers"`
	TotalPosts          int64               `json:"totalPosts"`
	TotalForms          int64               `json:"totalForms"`
	ActiveForms         int64               `json:"activeForms"`
	TotalApplications   int64               `json:"totalApplications"`
	PendingApplications int64               `json:"pendingApplications"`
	RecentApplications  []ApplicationDigest `json:"recentApplications"`
}

type ApplicationDigest struct {
	ID            int64             `json:"id"`
	FormTitle     string            `json:"formTitle"`
	ApplicantName string            `json:"applicantName"`
	Status        ApplicationStatus `json:"status"`
	SubmittedAt   *Timestamp        `json:"submittedAt"`
}
