package types

// ReportMeta 随结果一起返回的非致命信息
// 通知类副作用(截断提示、页级警告)与数据本身分离，由调用方决定如何呈现。
type ReportMeta struct {
	// 解码/归一化阶段收集的警告
	Warnings []string `json:"warnings,omitempty"`
	// 输入文本是否被截断
	Truncated bool `json:"truncated"`
}

// TextReport 单文本结果(人材サマリ、案件サマリ、スカウトメール)
type TextReport struct {
	Content string `json:"text"`
	ReportMeta
}

// CounselingReport カウンセリングレポート的结构化结果
// 任一小节在模型输出中缺失时对应字段为空字符串，不视为错误。
type CounselingReport struct {
	Summary    string `json:"summary"`    // 【人材要約】
	Concerns   string `json:"concerns"`   // 【懸念点】
	Questions  string `json:"questions"`  // 【質問例】
	CareerPlan string `json:"careerPlan"` // 【キャリアプラン】
	ReportMeta
}

// CompanyAnalysisReport 企業分析レポート的结构化结果
type CompanyAnalysisReport struct {
	Overview       string `json:"overview"`       // 1. 企業概要
	MarketAnalysis string `json:"marketAnalysis"` // 2. 市場環境
	Challenges     string `json:"challenges"`     // 3. 課題仮説
	Proposal       string `json:"proposal"`       // 4. 提案内容
	ReportMeta
}

// CompanyAnalysisInput 企業分析的输入字段
type CompanyAnalysisInput struct {
	CompanyName   string `json:"companyName"`
	DivisionName  string `json:"divisionName"`
	WebsiteURL    string `json:"websiteUrl"`
	TargetService string `json:"targetService"`
}
