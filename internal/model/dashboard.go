package model

// AdminDashboard is the admin overview feed.
type AdminDashboard struct {
	TotalStudents     int                `json:"totalStudents"`
	TotalTeachers     int                `json:"totalTeachers"`
	TotalClasses      int                `json:"totalClasses"`
	PresentToday      int                `json:"presentToday"`
	AbsentToday       int                `json:"absentToday"`
	LateArrivalsToday int                `json:"lateArrivalsToday"`
	Notifications     []NotificationItem `json:"notifications"`
}

// TeacherDashboard is the teacher overview feed.
type TeacherDashboard struct {
	Teacher       User               `json:"teacher"`
	Classes       []Class            `json:"classes"`
	Students      []User             `json:"students"`
	TotalClasses  int                `json:"totalClasses"`
	TotalStudents int                `json:"totalStudents"`
	Notifications []NotificationItem `json:"notifications"`
}

// StudentDashboard is the student overview feed.
type StudentDashboard struct {
	Profile           User               `json:"profile"`
	ClassInfo         *ClassInfo         `json:"classInfo"`
	AttendancePct     *AttendanceSummary `json:"attendancePct"`
	AttendanceRecords []Attendance       `json:"attendanceRecords"`
	Notifications     []NotificationItem `json:"notifications"`
}

// CountResponse is the body of the single-number stats endpoints.
type CountResponse struct {
	Count int `json:"count"`
}

// RateResponse is the body of GET /api/stats/today-rate.
type RateResponse struct {
	Rate int `json:"rate"`
}

// AdminProfile is the body of GET /api/admin/profile.
type AdminProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
