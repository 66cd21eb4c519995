package transform_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcal/transform"
)

func testCoefficients() *transform.CameraCoefficients {
	return &transform.CameraCoefficients{
		K: mat.NewDense(3, 3, []float64{
			820.5, 0, 320.1,
			0, 821.2, 240.7,
			0, 0, 1,
		}),
		D: mat.NewVecDense(5, []float64{0.11, -0.34, 0.001, -0.002, 0.17}),
		H: &transform.Homography{
			{0.04, 0.001, 25.2},
			{-0.002, 0.039, 24.8},
			{0.00001, -0.00002, 1},
		},
	}
}

func TestCoefficientsRoundTrip(t *testing.T) {
	coeffs := testCoefficients()
	path := filepath.Join(t.TempDir(), "coefficients.json")
	err := transform.SaveCoefficients(coeffs, path)
	test.That(t, err, test.ShouldBeNil)

	loaded, err := transform.LoadCoefficients(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded, test.ShouldResemble, coeffs)
}

func TestSaveCoefficientsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coefficients.json")

	var nilCoeffs *transform.CameraCoefficients
	err := transform.SaveCoefficients(nilCoeffs, path)
	test.That(t, err, test.ShouldNotBeNil)

	coeffs := testCoefficients()
	coeffs.K = nil
	err = transform.SaveCoefficients(coeffs, path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "K")

	coeffs = testCoefficients()
	coeffs.K = mat.NewDense(2, 2, nil)
	err = transform.SaveCoefficients(coeffs, path)
	test.That(t, err, test.ShouldNotBeNil)

	coeffs = testCoefficients()
	coeffs.D = mat.NewVecDense(3, nil)
	err = transform.SaveCoefficients(coeffs, path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "distortion")

	coeffs = testCoefficients()
	coeffs.H = nil
	err = transform.SaveCoefficients(coeffs, path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "H")
}

func TestLoadCoefficientsErrors(t *testing.T) {
	_, err := transform.LoadCoefficients(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	badJSON := filepath.Join(t.TempDir(), "bad.json")
	err = os.WriteFile(badJSON, []byte("not json"), 0o644)
	test.That(t, err, test.ShouldBeNil)
	_, err = transform.LoadCoefficients(badJSON)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "parse")

	shortD := filepath.Join(t.TempDir(), "short.json")
	err = os.WriteFile(shortD, []byte(`{"K":[[1,0,0],[0,1,0],[0,0,1]],"D":[0.1],"H":[[1,0,0],[0,1,0],[0,0,1]]}`), 0o644)
	test.That(t, err, test.ShouldBeNil)
	_, err = transform.LoadCoefficients(shortD)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "4 to 8")
}
