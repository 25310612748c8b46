package boost

// TableDataset is a minimal in-memory Dataset: a row count plus optional
// per-row labels. It exists for the CLI and for fold plumbing; real feature
// storage lives behind the Dataset interface in the consuming application.
type TableDataset struct {
	rows   int
	labels []float64
}

// NewTableDataset creates a labeled dataset with one row per label.
func NewTableDataset(labels []float64) *TableDataset {
	return &TableDataset{rows: len(labels), labels: labels}
}

// NewUnlabeledDataset creates a dataset with n rows and no labels.
func NewUnlabeledDataset(n int) *TableDataset {
	return &TableDataset{rows: n}
}

func (d *TableDataset) NumRows() int { return d.rows }

func (d *TableDataset) Labels() []float64 { return d.labels }

// Slice returns a new TableDataset restricted to the given rows, in order.
func (d *TableDataset) Slice(indices []int) Dataset {
	out := &TableDataset{rows: len(indices)}
	if d.labels != nil {
		out.labels = make([]float64, len(indices))
		for i, idx := range indices {
			out.labels[i] = d.labels[idx]
		}
	}
	return out
}
