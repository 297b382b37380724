// internal/results/columns.go
package results

// Column names shared by the program office tables.
const (
	ColYear        = "회차년도"
	ColRound       = "회차"
	ColProgramCode = "프로그램코드"
	ColProgramName = "프로그램명"
	ColTestCode    = "검사코드"
	ColTestName    = "검사명"
	ColInstitution = "기관코드"
	ColSpecimen    = "검체명"
	ColResult      = "검사결과"
	ColRefClass    = "기준분류"
	ColSubClass    = "세분류"
	ColRefSDIText  = "기준분류_sdi (text)"
	ColSubSDIText  = "세분류_sdi (text)"
	ColRefSDI      = "기준분류_sdi (Number)"
	ColSubSDI      = "세분류_sdi (Number)"
	ColDeviceCo    = "기기회사명"
	ColDevice      = "기기명"
	ColReagentCo   = "시약회사명"
	ColReagent     = "시약명"
	ColMethod      = "검사방법명"
	ColOutlierAll  = "ALL_Outlier"
	ColOutlierRef  = "기준분류_Outlier"
	ColOutlierSub  = "세분류_Outlier"
)

// Columns of the precomputed common-report summary table.
const (
	ColParentTest   = "상위검사명"
	ColRefClassName = "기준분류명"
	ColSubClassName = "세분류명"
	ColCount        = "기관수"
	ColCountOut     = "기관수_OUT"
	ColMedian       = "중간값"
	ColMean         = "평균"
	ColMin          = "최소값"
	ColMax          = "최대값"
	ColSD           = "표준편차"
	ColCV           = "변동계수"
	ColLower        = "하한치"
	ColUpper        = "상한치"
)

// Columns of the wide input sheet.
const (
	WideDeviceCo  = "기기회사"
	WideDevice    = "기기"
	WideReagentCo = "시약회사"
	WideReagent   = "시약"
	WideMethod    = "검사방법"
)

// LabReportColumns is the column layout written by WriteResultRows.
var LabReportColumns = []string{
	ColYear, ColRound, ColProgramCode, ColProgramName, ColInstitution,
	ColTestCode, ColTestName, ColSpecimen, ColResult, ColRefClass, ColSubClass,
	ColRefSDIText, ColSubSDIText, ColRefSDI, ColSubSDI,
	ColDeviceCo, ColDevice, ColReagentCo, ColReagent, ColMethod,
}

// Placeholder replaces missing descriptive fields at display time.
const Placeholder = "미입력"
