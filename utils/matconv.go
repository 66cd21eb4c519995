package utils

import (
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// GetPerspectiveTransform returns the 3x3 projective transform that maps the
// four src points onto the four dst points.
func GetPerspectiveTransform(src, dst []image.Point) *mat.Dense {
	srcVec := gocv.NewPointVectorFromPoints(src)
	defer srcVec.Close()
	dstVec := gocv.NewPointVectorFromPoints(dst)
	defer dstVec.Close()
	m := gocv.GetPerspectiveTransform(srcVec, dstVec)
	defer m.Close()
	return MatToDense(&m)
}

// DenseToMat converts a gonum matrix into a CV_64F gocv.Mat. The caller owns
// the returned Mat.
func DenseToMat(input mat.Matrix) gocv.Mat {
	rows, cols := input.Dims()
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV64F)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.SetDoubleAt(r, c, input.At(r, c))
		}
	}
	return m
}

// MatToDense converts a single-channel CV_64F gocv.Mat into a gonum Dense of
// the same shape.
func MatToDense(m *gocv.Mat) *mat.Dense {
	d := mat.NewDense(m.Rows(), m.Cols(), nil)
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			d.Set(r, c, m.GetDoubleAt(r, c))
		}
	}
	return d
}

// VecToMat converts a gonum vector into a 1xN CV_64F gocv.Mat, the row shape
// OpenCV expects for distortion coefficients. The caller owns the returned
// Mat.
func VecToMat(v mat.Vector) gocv.Mat {
	m := gocv.NewMatWithSize(1, v.Len(), gocv.MatTypeCV64F)
	for i := 0; i < v.Len(); i++ {
		m.SetDoubleAt(0, i, v.AtVec(i))
	}
	return m
}

// Point2fsToMat packs points into an Nx1 CV_32FC2 gocv.Mat, the shape corner
// detection produces and the homography estimator consumes. The caller owns
// the returned Mat.
func Point2fsToMat(pts []gocv.Point2f) gocv.Mat {
	m := gocv.NewMatWithSize(len(pts), 1, gocv.MatTypeCV32FC2)
	for i, p := range pts {
		m.SetFloatAt(i, 0, p.X)
		m.SetFloatAt(i, 1, p.Y)
	}
	return m
}

// MatToVec flattens a single-channel CV_64F gocv.Mat, row or column shaped,
// into a gonum vector.
func MatToVec(m *gocv.Mat) *mat.VecDense {
	rows, cols := m.Rows(), m.Cols()
	v := mat.NewVecDense(rows*cols, nil)
	i := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v.SetVec(i, m.GetDoubleAt(r, c))
			i++
		}
	}
	return v
}
