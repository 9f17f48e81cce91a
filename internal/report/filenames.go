package report

import "time"

// Export filename patterns. The sanitized project name comes from
// core.Project.SafeName (spaces to underscores, slashes to hyphens).

func WorkbookFilename(safeName string) string {
	return safeName + "_Report.xlsx"
}

func SummaryFilename(safeName string) string {
	return safeName + "_Summary.txt"
}

func DataFilename(safeName string) string {
	return safeName + "_Data.csv"
}

// SnapshotFilename stamps the save date so repeated manual saves do not
// overwrite each other in a download folder.
func SnapshotFilename(safeName string, now time.Time) string {
	return safeName + "_" + now.Format("20060102") + ".json"
}
