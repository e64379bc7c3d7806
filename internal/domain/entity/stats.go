package entity

// StatsOverview 管理后台概览
type StatsOverview struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalStories      int64   `json:"totalStories"`
	RecentUsers       int64   `json:"recentUsers"`
	RecentStories     int64   `json:"recentStories"`
	AvgStoriesPerUser float64 `json:"avgStoriesPerUser"`
	UserGrowthRate    float64 `json:"userGrowthRate"`
	StoryGrowthRate   float64 `json:"storyGrowthRate"`
}

// CountBucket 分组计数
type CountBucket struct {
	Key   string `json:"_id"`
	Count int64  `json:"count"`
}

// DailyCount 单日故事数
type DailyCount struct {
	Date    string `json:"_id"`
	Stories int64  `json:"stories"`
}

// TopUser 故事数排行
type TopUser struct {
	UserID     string `json:"_id"`
	StoryCount int64  `json:"storyCount"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
}

// StatsCharts 图表数据
type StatsCharts struct {
	StoriesByLanguage []CountBucket `json:"storiesByLanguage"`
	StoriesByAgeGroup []CountBucket `json:"storiesByAgeGroup"`
	StoriesByTheme    []CountBucket `json:"storiesByTheme"`
	StoriesByMood     []CountBucket `json:"storiesByMood"`
	DailyStats        []DailyCount  `json:"dailyStats"`
}

// DashboardStats 管理后台统计
type DashboardStats struct {
	Overview StatsOverview `json:"overview"`
	Charts   StatsCharts   `json:"charts"`
	TopUsers []TopUser     `json:"topUsers"`
	Period   int           `json:"period"`
}
