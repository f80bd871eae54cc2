package gtfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActiveServices_WithinCalendarRange(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	// 2026-07-27 is a Monday, within the calendar's range.
	active, err := ActiveServices(ds, "20260727")
	require.NoError(t, err)
	require.True(t, active["WEEKDAY"], "WEEKDAY should be active on a Monday in range")
}

func TestActiveServices_OutsideDateRange(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	active, err := ActiveServices(ds, "20250101")
	require.NoError(t, err)
	require.False(t, active["WEEKDAY"], "WEEKDAY should not be active before start_date")
}

func TestActiveServices_ExceptionAdd(t *testing.T) {
	files := oneLineShapeFeed()
	files["calendar_dates.txt"] = "service_id,date,exception_type\n" +
		"SPECIAL,20260704,1\n"

	ds := mustLoad(t, files)

	active, err := ActiveServices(ds, "20260704")
	require.NoError(t, err)
	require.True(t, active["SPECIAL"], "SPECIAL should be added by exception")
}

func TestActiveServices_ExceptionRemove(t *testing.T) {
	files := oneLineShapeFeed()
	files["calendar_dates.txt"] = "service_id,date,exception_type\n" +
		"WEEKDAY,20260727,2\n"

	ds := mustLoad(t, files)

	active, err := ActiveServices(ds, "20260727")
	require.NoError(t, err)
	require.False(t, active["WEEKDAY"], "WEEKDAY should be removed by exception")
}

func TestActiveServices_InvalidDate(t *testing.T) {
	ds := mustLoad(t, oneLineShapeFeed())

	_, err := ActiveServices(ds, "not-a-date")
	require.Error(t, err)
}
