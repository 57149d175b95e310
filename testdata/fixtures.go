package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpuck/internal/detector"
)

//go:embed hands/*.json
var handsFS embed.FS

// LoadHands loads a recorded detector response by name, without the
// .json extension. The files use the hand tracking helper's wire format.
func LoadHands(name string) ([]detector.HandLandmarks, error) {
	data, err := handsFS.ReadFile("hands/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load hands %s: %w", name, err)
	}

	var response struct {
		Hands []detector.HandLandmarks `json:"hands"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("decode hands %s: %w", name, err)
	}
	return response.Hands, nil
}

// HandFixtures lists the available fixture names.
func HandFixtures() []string {
	entries, err := handsFS.ReadDir("hands")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

// BlankFrames creates n black BGR frames. The caller closes them.
func BlankFrames(n, width, height int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
		frames[i] = &m
	}
	return frames
}
