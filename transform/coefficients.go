package transform

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// CameraCoefficients bundles everything the preprocessing pipeline needs: the
// intrinsic matrix K, the distortion coefficients D, and the homography H
// from the undistorted image to the working plane.
type CameraCoefficients struct {
	K *mat.Dense
	D *mat.VecDense
	H *Homography
}

// coefficientsJSON is the on-disk form of CameraCoefficients.
type coefficientsJSON struct {
	K [3][3]float64 `json:"K"`
	D []float64     `json:"D"`
	H [3][3]float64 `json:"H"`
}

// CheckValid checks if the fields for CameraCoefficients have valid inputs.
func (coeffs *CameraCoefficients) CheckValid() error {
	if coeffs == nil {
		return errors.New("pointer to CameraCoefficients is nil")
	}
	if coeffs.K == nil {
		return errors.New("camera matrix K is nil")
	}
	if rows, cols := coeffs.K.Dims(); rows != 3 || cols != 3 {
		return errors.Errorf("camera matrix K must be 3x3, got %dx%d", rows, cols)
	}
	if coeffs.D == nil {
		return errors.New("distortion coefficients D are nil")
	}
	if n := coeffs.D.Len(); n < 4 || n > 8 {
		return errors.Errorf("expected 4 to 8 distortion coefficients, got %d", n)
	}
	if coeffs.H == nil {
		return errors.New("homography H is nil")
	}
	return nil
}

// SaveCoefficients writes K, D and H to a JSON file at the given path.
func SaveCoefficients(coeffs *CameraCoefficients, path string) error {
	if err := coeffs.CheckValid(); err != nil {
		return err
	}
	out := coefficientsJSON{
		D: make([]float64, coeffs.D.Len()),
		H: *coeffs.H,
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out.K[r][c] = coeffs.K.At(r, c)
		}
	}
	for i := 0; i < coeffs.D.Len(); i++ {
		out.D[i] = coeffs.D.AtVec(i)
	}
	b, err := json.MarshalIndent(out, "", " ")
	if err != nil {
		return errors.Wrap(err, "cannot marshal camera coefficients")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write camera coefficients to %q", path)
	}
	return nil
}

// LoadCoefficients reads K, D and H back from a JSON file written by
// SaveCoefficients.
func LoadCoefficients(path string) (*CameraCoefficients, error) {
	//nolint:gosec
	jsonFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open camera coefficients file %q", path)
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read camera coefficients file")
	}
	var in coefficientsJSON
	if err := json.Unmarshal(byteValue, &in); err != nil {
		return nil, errors.Wrap(err, "cannot parse camera coefficients file")
	}
	if n := len(in.D); n < 4 || n > 8 {
		return nil, errors.Errorf("expected 4 to 8 distortion coefficients, got %d", n)
	}
	h := in.H
	coeffs := &CameraCoefficients{
		K: mat.NewDense(3, 3, nil),
		D: mat.NewVecDense(len(in.D), in.D),
		H: &h,
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			coeffs.K.Set(r, c, in.K[r][c])
		}
	}
	return coeffs, nil
}
