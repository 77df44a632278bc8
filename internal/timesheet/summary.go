package timesheet

// MonthSummary names the cells of a freshly built month sheet that hold its
// totals. The refs are opaque A1 strings.
type MonthSummary struct {
	SheetName       string `json:"sheet_name"`
	TotalTimeRef    string `json:"total_time_ref"`
	TargetTimeRef   string `json:"target_time_ref"`
	OvertimeRef     string `json:"overtime_ref"`
	VacationDaysRef string `json:"vacation_days_ref,omitempty"`
}

// Refs lists the populated references in overview column order.
func (s MonthSummary) Refs() []string {
	refs := []string{s.TotalTimeRef, s.TargetTimeRef, s.OvertimeRef}
	if s.VacationDaysRef != "" {
		refs = append(refs, s.VacationDaysRef)
	}
	return refs
}
