package evaluation

// Ratio returns part/whole, or 0 when whole is zero.
func Ratio(part, whole int) float64 {
	if whole == 0 {
		return 0.0
	}
	return float64(part) / float64(whole)
}

// Precision is the fraction of predictions for a label that were right.
// Returns 0.0 if the label was never predicted.
func Precision(truePositives, predicted int) float64 {
	return Ratio(truePositives, predicted)
}

// Recall is the fraction of cases expecting a label that received it.
// Returns 0.0 if no case expects the label.
func Recall(truePositives, support int) float64 {
	return Ratio(truePositives, support)
}

// F1 is the harmonic mean of precision and recall.
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0.0
	}
	return 2 * precision * recall / (precision + recall)
}
