package main

import (
	"errors"
	"fmt"
	"os"

	apperrors "github.com/glycora/imageaudit/pkg/errors"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			os.Exit(appErr.ExitCode())
		}
		os.Exit(1)
	}
}
