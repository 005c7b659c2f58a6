// Package jalali 提供系统使用的简化版伊朗历（Jalali）换算。
//
// 换算规则是固定偏移的近似算法，并非天文意义上准确的历法：
//   - 年 = 公历年 - 621
//   - 月 = 公历月 - 3（1~3 月回绕为 10~12）
//   - 日 = 公历日，不做天数修正
//   - 星期索引 = (日 + 月) % 7，索引 6 为星期五（节假日）
//
// 其他模块以这些结果作为键（日期字符串）与相等判断依据，因此必须严格保持上述公式。
package jalali

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidMonth = errors.New("月份必须在 1-12 之间")
	ErrInvalidDate  = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// FridayIndex 星期五对应的星期索引
const FridayIndex = 6

var weekdayNames = [7]string{
	"شنبه",
	"یکشنبه",
	"دوشنبه",
	"سه‌شنبه",
	"چهارشنبه",
	"پنج‌شنبه",
	"جمعه",
}

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد",
	"تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر",
	"دی", "بهمن", "اسفند",
}

// Date 伊朗历日期（值类型，按需计算，不落库）
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String 输出补零的 YYYY-MM-DD
func (d Date) String() string {
	return FormatDate(d.Year, d.Month, d.Day)
}

// FormatDate 输出补零的 YYYY-MM-DD
func FormatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// Day 日历中的一天
type Day struct {
	Day          int    `json:"day"`
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	WeekdayIndex int    `json:"weekday_index"`
	IsHoliday    bool   `json:"is_holiday"`
}

// FromGregorian 将公历时刻换算为伊朗历日期
func FromGregorian(t time.Time) Date {
	month := int(t.Month())
	if month > 3 {
		month -= 3
	} else {
		month += 9
	}
	return Date{
		Year:  t.Year() - 621,
		Month: month,
		Day:   t.Day(),
	}
}

// Today 返回当前时刻对应的伊朗历日期
func Today() Date {
	return FromGregorian(time.Now())
}

// IsLeap 闰年判断：((year - 979) % 33) % 4 == 1
func IsLeap(year int) bool {
	return ((year-979)%33)%4 == 1
}

// DaysInMonth 返回指定月份天数：1-6 月 31 天，7-11 月 30 天，12 月闰年 30 天否则 29 天
func DaysInMonth(year, month int) (int, error) {
	switch {
	case month < 1 || month > 12:
		return 0, ErrInvalidMonth
	case month <= 6:
		return 31, nil
	case month <= 11:
		return 30, nil
	case IsLeap(year):
		return 30, nil
	default:
		return 29, nil
	}
}

// WeekdayIndex 星期索引 (day + month) % 7
func WeekdayIndex(day, month int) int {
	idx := (day + month) % 7
	if idx < 0 {
		idx += 7
	}
	return idx
}

// WeekdayName 星期名称
func WeekdayName(day, month int) string {
	return weekdayNames[WeekdayIndex(day, month)]
}

// MonthName 月份名称；越界返回空字符串
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// MonthDays 生成整月日历，按日升序
func MonthDays(year, month int) ([]Day, error) {
	n, err := DaysInMonth(year, month)
	if err != nil {
		return nil, err
	}

	days := make([]Day, 0, n)
	for d := 1; d <= n; d++ {
		idx := WeekdayIndex(d, month)
		days = append(days, Day{
			Day:          d,
			Date:         FormatDate(year, month, d),
			Weekday:      weekdayNames[idx],
			WeekdayIndex: idx,
			IsHoliday:    idx == FridayIndex,
		})
	}
	return days, nil
}

// ParseDate 将 "YYYY-MM-DD" 拆为三个整数，不校验历法合法性
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}
	return Date{Year: nums[0], Month: nums[1], Day: nums[2]}, nil
}

// PersianDigits 将西文数字 0-9 替换为波斯数字，其余字符原样保留
func PersianDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('۰' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatNumber 以波斯数字输出整数
func FormatNumber(n int) string {
	return PersianDigits(strconv.Itoa(n))
}

// FormatLong 输出 "<日> <月名> <年>"，withWeekday 为 true 时前置星期名称
func FormatLong(d Date, withWeekday bool) string {
	body := fmt.Sprintf("%s %s %s", FormatNumber(d.Day), MonthName(d.Month), FormatNumber(d.Year))
	if !withWeekday {
		return body
	}
	return WeekdayName(d.Day, d.Month) + " " + body
}
