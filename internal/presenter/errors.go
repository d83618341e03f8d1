package presenter

import "errors"

var (
	// ErrUnknownView is returned when a view that was never attached, or was
	// already cleared, is detached.
	ErrUnknownView = errors.New("view is not registered")

	// ErrPresenterNotProvided is returned when a new view does not supply a presenter.
	ErrPresenterNotProvided = errors.New("view does not provide a presenter")

	// ErrViewTypeMismatch is returned when a presenter is bound to a view of another type.
	ErrViewTypeMismatch = errors.New("presenter defined for a different view type")

	// ErrNilView is returned for a control action that carries no view.
	ErrNilView = errors.New("control action has nil view")
)
