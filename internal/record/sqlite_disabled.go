//go:build !sqlite
// +build !sqlite

package record

import (
	"errors"

	"github.com/tnakai11/tiny-reporter/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Writer, error) {
	_ = cfg
	_ = log
	return nil, errors.New("sqlite records not built: build with -tags sqlite")
}
