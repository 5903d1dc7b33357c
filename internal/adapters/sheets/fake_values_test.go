package sheets

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// fakeValues keeps sheets in memory and understands the A1 ranges the
// repositories produce.
type fakeValues struct {
	mu     sync.Mutex
	sheets map[string][][]interface{}
	getErr error
}

func newFakeValues() *fakeValues {
	return &fakeValues{sheets: make(map[string][][]interface{})}
}

func (f *fakeValues) seed(sheet string, rows ...[]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sheets[sheet] = append(f.sheets[sheet], rows...)
}

func (f *fakeValues) rows(sheet string) [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sheets[sheet]
}

func (f *fakeValues) Get(_ context.Context, rng string) ([][]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	sheet, _ := splitRange(rng)
	out := make([][]interface{}, len(f.sheets[sheet]))
	for i, row := range f.sheets[sheet] {
		out[i] = append([]interface{}(nil), row...)
	}
	return out, nil
}

func (f *fakeValues) Append(_ context.Context, rng string, rows [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sheet, _ := splitRange(rng)
	f.sheets[sheet] = append(f.sheets[sheet], rows...)
	return nil
}

func (f *fakeValues) Update(_ context.Context, rng string, rows [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sheet, ref := splitRange(rng)
	start := strings.SplitN(ref, ":", 2)[0]
	letters := strings.TrimRight(start, "0123456789")
	rowNumber, _ := strconv.Atoi(start[len(letters):])
	col := int(letters[0] - 'A')

	data := f.sheets[sheet]
	for r, values := range rows {
		idx := rowNumber - 1 + r
		for len(data) <= idx {
			data = append(data, []interface{}{})
		}
		for c, v := range values {
			for len(data[idx]) <= col+c {
				data[idx] = append(data[idx], "")
			}
			data[idx][col+c] = v
		}
	}
	f.sheets[sheet] = data
	return nil
}

func splitRange(rng string) (string, string) {
	idx := strings.LastIndex(rng, "!")
	if idx < 0 {
		return "", rng
	}
	sheet := strings.Trim(rng[:idx], "'")
	return strings.ReplaceAll(sheet, "''", "'"), rng[idx+1:]
}
