package capture

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/sbinet/npyio"
)

const (
	freqEntry    = "freq"
	spectraEntry = "masterSpectra"
)

// NPZLoader reads NumPy .npz capture archives. Each archive must contain a
// one-dimensional 'freq' array and a 'masterSpectra' array of shape
// time x channel x bin; only the first time slice is used.
type NPZLoader struct{}

func (NPZLoader) Load(path string) (*Capture, error) {
	dayID, err := DayIDFromPath(path)
	if err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	freq, err := readEntry(&zr.Reader, freqEntry)
	if err != nil {
		return nil, err
	}
	if len(freq.shape) != 1 {
		return nil, fmt.Errorf("entry '%s': want 1 dimension, got %d", freqEntry, len(freq.shape))
	}

	spectra, err := readEntry(&zr.Reader, spectraEntry)
	if err != nil {
		return nil, err
	}

	power, err := firstTimeSlice(spectra)
	if err != nil {
		return nil, fmt.Errorf("entry '%s': %w", spectraEntry, err)
	}
	if len(power) > 0 && len(power[0]) != len(freq.data) {
		return nil, fmt.Errorf("bin count %d does not match frequency axis length %d",
			len(power[0]), len(freq.data))
	}

	return &Capture{
		Path:        path,
		DayID:       dayID,
		Frequencies: freq.data,
		Power:       power,
	}, nil
}

// firstTimeSlice reshapes the raw array into a channel x bin matrix. A
// three-dimensional array is reduced to its first time slice; a
// two-dimensional array is used as-is.
func firstTimeSlice(a *npyArray) ([][]float64, error) {
	var channels, bins int
	switch len(a.shape) {
	case 3:
		channels, bins = a.shape[1], a.shape[2]
	case 2:
		channels, bins = a.shape[0], a.shape[1]
	default:
		return nil, fmt.Errorf("want 2 or 3 dimensions, got %d", len(a.shape))
	}

	power := make([][]float64, channels)
	for i := 0; i < channels; i++ {
		power[i] = a.data[i*bins : (i+1)*bins]
	}
	return power, nil
}

func readEntry(zr *zip.Reader, name string) (*npyArray, error) {
	for _, f := range zr.File {
		if f.Name != name && f.Name != name+".npy" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening entry '%s': %w", f.Name, err)
		}
		defer rc.Close()

		a, err := readNPY(rc)
		if err != nil {
			return nil, fmt.Errorf("entry '%s': %w", f.Name, err)
		}
		return a, nil
	}
	return nil, fmt.Errorf("archive has no '%s' entry", name)
}

type npyArray struct {
	shape []int
	data  []float64
}

// readNPY decodes a single NPY stream via npyio. Only C-ordered
// float32/float64 arrays are supported.
func readNPY(r io.Reader) (*npyArray, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if nr.Header.Descr.Fortran {
		return nil, fmt.Errorf("fortran-ordered arrays are not supported")
	}

	var data []float64
	switch dt := nr.Header.Descr.Type; dt {
	case "<f8":
		if err = nr.Read(&data); err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
	case "<f4":
		var f32 []float32
		if err = nr.Read(&f32); err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
		data = make([]float64, len(f32))
		for i, v := range f32 {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported dtype '%s'", dt)
	}

	return &npyArray{shape: nr.Header.Descr.Shape, data: data}, nil
}
