package nav

import "errors"

var (
	// ErrPageNotFound indicates a page name is not registered.
	ErrPageNotFound = errors.New("nav: page not found")

	// ErrDuplicatePage indicates a page name is already registered and the
	// registry rejects duplicates.
	ErrDuplicatePage = errors.New("nav: duplicate page")

	// ErrEmptyPageName indicates a page has no name.
	ErrEmptyPageName = errors.New("nav: empty page name")

	errNilPage = errors.New("nav: nil page")
)
