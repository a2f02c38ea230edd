package main

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/gen_logger_data <output_directory> [days]")
		fmt.Println("Example: go run ./cmd/gen_logger_data test_data 14")
		return
	}

	outputDir := os.Args[1]
	days := 7
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			fmt.Printf("Invalid day count: %s\n", os.Args[2])
			return
		}
		days = n
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Failed to create directory: %v\n", err)
		return
	}

	start := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	var wg sync.WaitGroup
	for i, p := range profiles {
		wg.Add(1)
		go func(seed int64, p profile) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			path := filepath.Join(outputDir, p.filename)
			count, err := writeExport(path, p, start, days, rng)
			if err != nil {
				fmt.Printf("Failed to write %s: %v\n", p.filename, err)
				return
			}
			fmt.Printf("Generated %s with %d readings\n", p.filename, count)
		}(time.Now().UnixNano()+int64(i), p)
	}
	wg.Wait()
	fmt.Println("All logger exports generated.")
}

// profile describes one simulated logger
type profile struct {
	filename  string
	device    string
	interval  time.Duration
	base      float64 // mean temperature
	amplitude float64 // daily swing
	noise     float64
}

var profiles = []profile{
	{"cold_room.csv", "TL-20 cold room", 15 * time.Minute, 4.0, 1.0, 0.3},
	{"freezer.csv", "TL-20 freezer", 30 * time.Minute, -18.0, 0.8, 0.4},
	{"lab_bench.csv", "TL-30 lab bench", 10 * time.Minute, 21.0, 4.0, 0.5},
	{"greenhouse.txt", "TL-30 greenhouse", 5 * time.Minute, 24.0, 9.0, 1.2},
}

// writeExport writes a logger export with a preamble, the data header and
// the readings, sprinkling in the comment and corrupt lines real devices emit
func writeExport(path string, p profile, start time.Time, days int, rng *rand.Rand) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "Temperature logger export\n")
	fmt.Fprintf(w, "Device: %s\n", p.device)
	fmt.Fprintf(w, "Interval: %s\n", p.interval)
	fmt.Fprintf(w, "Unit: C\n\n")
	fmt.Fprintf(w, "MM.DD.YYYY  HH:MM:SS   T\n")

	count := 0
	end := start.AddDate(0, 0, days)
	for ts := start; ts.Before(end); ts = ts.Add(p.interval) {
		switch roll := rng.Float64(); {
		case roll < 0.002:
			fmt.Fprintf(w, "# sensor check %s\n", ts.Format("15:04"))
		case roll < 0.003:
			fmt.Fprintf(w, "%s %s ERR\n", ts.Format("01.02.2006"), ts.Format("15:04:05"))
			continue
		}

		hour := float64(ts.Hour()) + float64(ts.Minute())/60
		temp := p.base + p.amplitude*math.Sin((hour-9)*math.Pi/12) + (rng.Float64()*2-1)*p.noise
		fmt.Fprintf(w, "%s %s %.2f\n", ts.Format("01.02.2006"), ts.Format("15:04:05"), temp)
		count++
	}
	fmt.Fprintln(w)

	if err := w.Flush(); err != nil {
		return 0, err
	}
	return count, nil
}
