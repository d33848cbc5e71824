package dummygw

import (
	"github.com/pkg/errors"

	"github.com/heronix/teacherdesk/core"
)

var errUnavailable = errors.Wrap(core.ErrBackendUnavailable, "dummy: backend offline")
