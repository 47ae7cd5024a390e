package dto

// ScheduleQuery captures query parameters for /schedule.
type ScheduleQuery struct {
	Section string `form:"section"`
}

// WeekQuery captures parameters for /schedule/week. Date defaults to
// today when empty.
type WeekQuery struct {
	Date string `form:"date"`
}

// UpcomingQuery captures parameters for /schedule/upcoming. From and
// Date are aliases; both default to today when empty.
type UpcomingQuery struct {
	From  string `form:"from"`
	Date  string `form:"date"`
	Limit int    `form:"limit"`
}

// ExportQuery captures parameters shared by the export endpoints.
type ExportQuery struct {
	Section string `form:"section"`
}

// SyncRequest captures parameters for the Canvas sync endpoint.
type SyncRequest struct {
	DryRun bool `form:"dryRun" json:"dryRun"`
}

// ReloadResponse reports the outcome of a configuration reload.
type ReloadResponse struct {
	Path     string `json:"path"`
	Course   string `json:"course"`
	Sections int    `json:"sections"`
	Entries  int    `json:"entries"`
}
