package profile

import "errors"

// ErrNoData reports a merged profile with neither a first name nor an email.
// Fill and save operations refuse in this state instead of mutating anything.
var ErrNoData = errors.New("profile: no data: need at least a first name or an email")
