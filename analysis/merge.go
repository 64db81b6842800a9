package analysis

import (
	zs "github.com/nycdata/zipstudy"
)

// Merge inner-joins the demographic and income tables on the zone key.
// Zones present in only one source are excluded by contract: the join defines
// the study population, it is not a data-cleaning accident.
func Merge(demo, income *zs.Table) (*zs.Table, error) {
	var (
		merged *zs.Table
		e      error
	)
	if merged, e = demo.InnerJoin(income, ZipCol); e != nil {
		return nil, e
	}

	if merged.RowCount() == 0 {
		return nil, &EmptyJoinError{Key: ZipCol}
	}

	return merged, nil
}
