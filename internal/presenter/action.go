package presenter

// Control is an action interpreted by the presenter middleware. The set of
// control actions is closed: AttachView, DetachView and ClearView.
type Control[S any] interface {
	controlView() View[S]
}

// AttachView registers a view, or resumes a detached one.
type AttachView[S any] struct {
	View View[S]
}

// DetachView pauses broadcasts to a view without dropping its presenter.
type DetachView[S any] struct {
	View View[S]
}

// ClearView removes a view and its presenter.
type ClearView[S any] struct {
	View View[S]
}

func (a AttachView[S]) controlView() View[S] { return a.View }
func (a DetachView[S]) controlView() View[S] { return a.View }
func (a ClearView[S]) controlView() View[S]  { return a.View }

// Attach returns an AttachView action for v.
func Attach[S any](v View[S]) AttachView[S] {
	return AttachView[S]{View: v}
}

// Detach returns a DetachView action for v.
func Detach[S any](v View[S]) DetachView[S] {
	return DetachView[S]{View: v}
}

// Clear returns a ClearView action for v.
func Clear[S any](v View[S]) ClearView[S] {
	return ClearView[S]{View: v}
}
