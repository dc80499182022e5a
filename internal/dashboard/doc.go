// Package dashboard owns the per-session selection and the event dispatcher.
//
// A [Controller] holds one session's [Selection] (year and optional
// continent filter). Every input goes through [Controller.Dispatch], which
// applies the event and returns a freshly computed [View] with both charts:
//
//	ctrl := dashboard.New(ds)
//	view, err := ctrl.Dispatch(dashboard.YearChanged{Year: 1957})
//	view, _ = ctrl.Dispatch(dashboard.SegmentClicked{Label: "Asia"})
//
// Clicking the label that is already selected clears the filter; any other
// label replaces it. Changing the year never touches the filter.
package dashboard
