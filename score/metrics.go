// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package score

// Result holds the character classification metrics for one
// comparison, each in the range [0,1].
type Result struct {
	Accuracy, Precision, Recall, F1 float64
}

type labelCount struct {
	tp, fp, fn int
}

// Metrics treats each character position as a classification, with
// the ground truth character as the true label and the OCR character
// as the prediction, and returns the accuracy along with the macro
// averaged precision, recall and F1 score.
//
// Both texts are normalised and then truncated to the length of the
// shorter one, so the comparison is purely positional and anything
// beyond the common length is ignored. If there is no common length
// all metrics are 0.
//
// The macro averages cover every label seen in either truncated
// sequence. A label which was never predicted has a precision of 1,
// and a label which never occurs in the ground truth has a recall
// of 1.
func Metrics(ocrText, truthText string) Result {
	pred := []rune(Normalize(ocrText))
	truth := []rune(Normalize(truthText))

	n := len(pred)
	if len(truth) < n {
		n = len(truth)
	}
	if n == 0 {
		return Result{}
	}
	pred, truth = pred[:n], truth[:n]

	var correct int
	var order []rune
	counts := make(map[rune]*labelCount)
	get := func(r rune) *labelCount {
		c, ok := counts[r]
		if !ok {
			c = &labelCount{}
			counts[r] = c
			order = append(order, r)
		}
		return c
	}
	for i := 0; i < n; i++ {
		if pred[i] == truth[i] {
			correct++
			get(truth[i]).tp++
			continue
		}
		get(truth[i]).fn++
		get(pred[i]).fp++
	}

	var p, r, f float64
	for _, l := range order {
		c := counts[l]
		p += ratioOr1(c.tp, c.tp+c.fp)
		r += ratioOr1(c.tp, c.tp+c.fn)
		f += ratioOr1(2*c.tp, 2*c.tp+c.fp+c.fn)
	}
	labels := float64(len(order))

	return Result{
		Accuracy:  float64(correct) / float64(n),
		Precision: p / labels,
		Recall:    r / labels,
		F1:        f / labels,
	}
}

// ratioOr1 returns num/den, or 1 if den is zero.
func ratioOr1(num, den int) float64 {
	if den == 0 {
		return 1.0
	}
	return float64(num) / float64(den)
}
