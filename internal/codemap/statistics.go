package codemap

// Statistics is the fixed-shape record produced by the code quality
// analyzer (component E). Every bucket carries a total plus the list of
// per-issue records that back it.
type Statistics struct {
	DBQueriesInLoops Bucket[DBLoopIssue]   `json:"dbQueriesInLoops"`
	NPlusOneQueries  Bucket[DBLoopIssue]   `json:"nPlusOneQueries"`
	DeadCode         DeadCodeBucket        `json:"deadCode"`
	TechnicalDebt    TechnicalDebtBucket   `json:"technicalDebt"`
	CodeSmells       Bucket[CodeSmell]     `json:"codeSmells"`
	RepeatedCode     Bucket[RepeatedCode]  `json:"repeatedCode"`
	Anomalies        Bucket[Anomaly]       `json:"anomalies"`
	BlockingAsync    Bucket[BlockingAsync] `json:"blockingAsync"`
}

// Bucket is a total count plus the list of issues backing it.
type Bucket[T any] struct {
	Count  int `json:"count"`
	Issues []T `json:"issues"`
}

// DBLoopIssue backs both DB-queries-in-loops and N+1 buckets: a loop body
// containing a database access pattern, keyed by (filePath, label, loopStart)
// for dedup.
type DBLoopIssue struct {
	FilePath     string `json:"filePath"`
	FunctionName string `json:"functionName"`
	Line         int    `json:"line"`
	Pattern      string `json:"pattern"`
}

// BlockingAsync is a synchronous-blocking-on-async call found inside a
// Service/Controller-scoped function.
type BlockingAsync struct {
	FilePath     string `json:"filePath"`
	FunctionName string `json:"functionName"`
	Method       string `json:"method"`
	Line         int    `json:"line"`
	Pattern      string `json:"pattern"`
}

// DeadCodeBucket carries the total plus the sub-counts the spec requires:
// unreferenced controllers, unreferenced public methods, large commented
// blocks, and backup-pattern filenames.
type DeadCodeBucket struct {
	Count               int              `json:"count"`
	UnusedControllers   int              `json:"unusedControllers"`
	UnusedPublicMethods int              `json:"unusedPublicMethods"`
	LargeCommentBlocks  int              `json:"largeCommentBlocks"`
	BackupFiles         int              `json:"backupFiles"`
	Issues              []DeadCodeIssue  `json:"issues"`
}

// DeadCodeIssue is one unreferenced/dead construct.
type DeadCodeIssue struct {
	FilePath string `json:"filePath"`
	Name     string `json:"name"`
	Kind     string `json:"kind"` // "controller", "public_method", "comment_block", "backup_file"
	Line     int    `json:"line,omitempty"`
}

// TechnicalDebtBucket carries sub-counts for each recognized marker kind.
type TechnicalDebtBucket struct {
	Count             int                  `json:"count"`
	TODO              int                  `json:"todo"`
	FIXME             int                  `json:"fixme"`
	Hacky             int                  `json:"hacky"`
	TemporaryRemoval  int                  `json:"temporaryRemoval"`
	Issues            []TechnicalDebtIssue `json:"issues"`
}

// TechnicalDebtIssue is one comment-borne marker.
type TechnicalDebtIssue struct {
	FilePath string `json:"filePath"`
	Line     int    `json:"line"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
}

// CodeSmell is one structural smell in a Service/Controller-scoped node.
type CodeSmell struct {
	FilePath     string `json:"filePath"`
	FunctionName string `json:"functionName"`
	Kind         string `json:"kind"` // try_without_catch, magic_number, magic_string, long_method, explicit_cast
	Count        int    `json:"count,omitempty"`
	Line         int    `json:"line,omitempty"`
}

// RepeatedCode is one category of normalized-duplicate fragment.
type RepeatedCode struct {
	Category string   `json:"category"` // validation, address, sql_table, orm_include
	Pattern  string   `json:"pattern"`
	Count    int      `json:"count"`
	Files    []string `json:"files"`
}

// Anomaly is one graph/pattern-derived anomaly within a Service/Controller.
type Anomaly struct {
	FilePath     string `json:"filePath"`
	FunctionName string `json:"functionName"`
	Kind         string `json:"kind"`
	Line         int    `json:"line,omitempty"`
}
