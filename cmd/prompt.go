package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const factionPrompt = "Give the number of factions: "

var errInvalidFactionCount = errors.New("the number of factions must be an integer number >= 2")

// parseFactionCount accepts any numeric spelling of an integer >= 2 ("5", " 5 ", "5.0").
func parseFactionCount(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 2 || f > math.MaxInt32 {
		return 0, errInvalidFactionCount
	}
	return int(f), nil
}

// promptFactionCount asks for the faction count on out and reads one line from in.
func promptFactionCount(in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, factionPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading faction count: %w", err)
	}
	return parseFactionCount(line)
}
