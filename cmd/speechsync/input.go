package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// commentaryInput collects the flags every text-consuming command shares.
type commentaryInput struct {
	file  string
	text  string
	title string
}

func (in *commentaryInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "Read commentary from a file (\"-\" for stdin)")
	cmd.Flags().StringVar(&in.text, "text", "", "Commentary text")
	cmd.Flags().StringVarP(&in.title, "title", "t", "", "Report title spoken before the commentary")
}

func (in *commentaryInput) read(cmd *cobra.Command) (string, error) {
	switch {
	case in.text != "" && in.file != "":
		return "", errors.New("use either --text or --file, not both")
	case in.text != "":
		return in.text, nil
	case in.file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case in.file != "":
		data, err := os.ReadFile(in.file)
		if err != nil {
			return "", fmt.Errorf("read commentary: %w", err)
		}
		return string(data), nil
	default:
		return "", errors.New("commentary required (use --text or --file)")
	}
}

func (in *commentaryInput) readNonEmpty(cmd *cobra.Command) (string, error) {
	text, err := in.read(cmd)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("commentary is empty")
	}
	return text, nil
}
