package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer stores arena results as CSV files inside a run directory.
type Writer struct {
	dir string
}

// NewWriter creates dir (including parents) and returns a writer rooted
// there. Combine with TimestampedDir to keep repeated runs apart.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// TimestampedDir names a run directory under base by the current time.
func TimestampedDir(base string) string {
	return filepath.Join(base, time.Now().Format("20060102-150405"))
}

// Dir returns the directory the writer stores files in.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteGameRecords stores one row per played game in games.csv.
func (w *Writer) WriteGameRecords(records []GameRecord) error {
	f, err := os.Create(filepath.Join(w.dir, "games.csv"))
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"game", "first", "winner", "moves", "iterations", "duration_ms"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Game),
			record.First,
			record.Winner,
			strconv.Itoa(record.Moves),
			strconv.FormatUint(record.Iterations, 10),
			strconv.FormatInt(record.Duration.Milliseconds(), 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummary stores the aggregated outcome of a run in summary.csv.
func (w *Writer) WriteSummary(s Summary) error {
	f, err := os.Create(filepath.Join(w.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{
		"agent1", "agent2", "games", "agent1_wins", "agent2_wins", "draws",
		"first_mover_wins", "mean_moves", "stddev_moves", "mean_iterations", "elapsed_ms",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	row := []string{
		s.Agent1,
		s.Agent2,
		strconv.Itoa(s.Games),
		strconv.Itoa(s.Agent1Wins),
		strconv.Itoa(s.Agent2Wins),
		strconv.Itoa(s.Draws),
		strconv.Itoa(s.FirstMoverWins),
		strconv.FormatFloat(s.MeanMoves, 'f', 2, 64),
		strconv.FormatFloat(s.StdDevMoves, 'f', 2, 64),
		strconv.FormatFloat(s.MeanIterations, 'f', 1, 64),
		strconv.FormatInt(s.Elapsed.Milliseconds(), 10),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write summary row: %w", err)
	}

	writer.Flush()
	return writer.Error()
}
