package twse

// stockDayResponse は /exchangeReport/STOCK_DAY のレスポンスです。
// data の各行は fields と同じ並びの文字列です。
type stockDayResponse struct {
	Stat   string     `json:"stat"`
	Date   string     `json:"date"`
	Title  string     `json:"title"`
	Fields []string   `json:"fields"`
	Data   [][]string `json:"data"`
}

// 列見出し
const (
	fieldDate   = "日期"
	fieldVolume = "成交股數"
	fieldOpen   = "開盤價"
	fieldHigh   = "最高價"
	fieldLow    = "最低價"
	fieldClose  = "收盤價"
)
