package indicators

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadBarsCSV loads OHLC bars from a CSV file. The header row names the
// columns; high, low and close are required, any others (time, open,
// volume) are ignored.
func ReadBarsCSV(path string) ([]Bar, error) {
	fl, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fl.Close()

	r := csv.NewReader(fl)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, want := range []string{"high", "low", "close"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing %q column in %s", want, path)
		}
	}

	var bars []Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b, err := parseBar(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseBar(rec []string, cols map[string]int) (Bar, error) {
	field := func(name string) (float64, error) {
		i := cols[name]
		if i >= len(rec) {
			return 0, fmt.Errorf("%s: record too short", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return v, nil
	}

	var b Bar
	var err error
	if b.High, err = field("high"); err != nil {
		return Bar{}, err
	}
	if b.Low, err = field("low"); err != nil {
		return Bar{}, err
	}
	if b.Close, err = field("close"); err != nil {
		return Bar{}, err
	}
	return b, nil
}
