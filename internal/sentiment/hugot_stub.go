//go:build !hugot

package sentiment

import "errors"

var ErrHugotUnavailable = errors.New("hugot backend unavailable in this build, rebuild with -tags hugot")

func NewHugotClassifier(_, _ string) (Classifier, error) {
	return nil, ErrHugotUnavailable
}
