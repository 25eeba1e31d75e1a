package model

type AdminDashboard struct {
	TotalTeachers    int64 `json:"totalTeachers"`
	TotalStudents    int64 `json:"totalStudents"`
	TotalClasses     int64 `json:"totalClasses"`
	TotalAssessments int64 `json:"totalAssessments"`
}

type TeacherDashboard struct {
	TotalClasses     int64 `json:"totalClasses"`
	TotalAssessments int64 `json:"totalAssessments"`
}

type StudentDashboard struct {
	TotalClasses     int64 `json:"totalClasses"`
	GradedAssessment int64 `json:"gradedAssessments"`
}
