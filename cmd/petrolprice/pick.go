package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rubiojr/petrolprice/internal/search"
	"github.com/rubiojr/petrolprice/pkg/api"
	"github.com/urfave/cli/v2"
)

func pickFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "pick",
		Aliases: []string{"p"},
		Usage:   "Number of the suburb to use when several match (1-based)",
	}
}

// chooseCandidate returns the suburb to use. A single match is used as is;
// several matches need --pick or an answer on stdin.
func chooseCandidate(c *cli.Context, res search.Resolution) (api.SuburbCandidate, error) {
	if cand, ok := res.Auto(); ok {
		return cand, nil
	}
	if n := c.Int("pick"); n > 0 {
		return res.Pick(n - 1)
	}
	return promptCandidate(c.App.Reader, c.App.Writer, res)
}

func promptCandidate(in io.Reader, out io.Writer, res search.Resolution) (api.SuburbCandidate, error) {
	fmt.Fprintf(out, "Several suburbs match %q:\n", res.Query)
	for i, cand := range res.Candidates {
		fmt.Fprintf(out, "  %d. %s\n", i+1, cand)
	}
	fmt.Fprint(out, "Choose a suburb: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return api.SuburbCandidate{}, errors.New("no suburb selected")
	}
	answer := strings.TrimSpace(scanner.Text())
	n, err := strconv.Atoi(answer)
	if err != nil {
		return api.SuburbCandidate{}, fmt.Errorf("%w: %q", search.ErrInvalidChoice, answer)
	}
	return res.Pick(n - 1)
}
