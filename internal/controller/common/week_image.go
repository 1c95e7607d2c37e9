package common

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/Freeeeeet/timetable/internal/controller/common/formatting"
	"github.com/Freeeeeet/timetable/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	dayPaddingX      = 8
	minEntryHeight   = 8.0
	entryRadius      = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 18
	maxLabelRunes    = 22
	titleFontSize    = 25.0
	dayFontSize      = 24.0
	hourFontSize     = 16.0
	entryFontSize    = 15.0
	entrySubFontSize = 13.0
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 220}
	hourLabelColor  = color.RGBA{110, 115, 120, 200}
	hourLineColor   = color.NRGBA{150, 150, 150, 255}
	evenDayColor    = color.NRGBA{240, 240, 240, 255}
	oddDayColor     = color.NRGBA{220, 220, 220, 255}
	entryTextColor  = color.RGBA{20, 24, 28, 230}
	entryShadow     = color.RGBA{0, 0, 0, 20}
	entryNoRoomFill = color.RGBA{158, 158, 158, 200}
)

// Палитра для занятий: цвет выбирается по предмету, чтобы один предмет выглядел одинаково
var entryPalette = []color.RGBA{
	{133, 193, 85, 220},
	{255, 182, 193, 255},
	{129, 180, 227, 230},
	{247, 201, 107, 230},
	{186, 153, 222, 230},
	{120, 205, 190, 230},
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsOnce   sync.Once
	parsedFonts map[FontStyle]*opentype.Font
)

// loadFont устанавливает шрифт Go нужного размера или basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsOnce.Do(func() {
		parsedFonts = make(map[FontStyle]*opentype.Font)
		if f, err := opentype.Parse(goregular.TTF); err == nil {
			parsedFonts[FontStyleDefault] = f
		}
		if f, err := opentype.Parse(gobold.TTF); err == nil {
			parsedFonts[FontStyleBold] = f
		}
	})

	parsed, ok := parsedFonts[style]
	if !ok {
		parsed, ok = parsedFonts[FontStyleDefault]
	}
	if ok {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}

	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует недельную сетку Пн-Вс с занятиями и возвращает PNG
func GenerateWeekImage(title string, reservations []*model.Reservation) ([]byte, error) {
	byDay := groupByWeekday(reservations)
	hours := calculateHourRange(reservations)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, title)
	drawHourLabels(dc, hours, cellHeight)

	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		weekday := model.Weekday(dayIndex + 1)
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex)
		drawDayHeader(dc, weekday, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, r := range byDay[weekday] {
			drawEntry(dc, r, x, y, dayWidth, hours, cellHeight)
		}
	}

	return encodeImage(dc)
}

// groupByWeekday группирует занятия по дням недели
func groupByWeekday(reservations []*model.Reservation) map[model.Weekday][]*model.Reservation {
	byDay := make(map[model.Weekday][]*model.Reservation)
	for _, r := range reservations {
		if r.Weekday.Valid() {
			byDay[r.Weekday] = append(byDay[r.Weekday], r)
		}
	}
	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(reservations []*model.Reservation) hourRange {
	minHour := 24
	maxHour := 0

	for _, r := range reservations {
		startH := r.StartTime.Hour()
		endH := r.EndTime.Hour()
		if r.EndTime.Minute() > 0 || r.EndTime.Second() > 0 {
			endH++
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок
func drawHeader(dc *gg.Context, title string) {
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/4, 0.5, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourFontSize, FontStyleDefault)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели
func drawDayHeader(dc *gg.Context, weekday model.Weekday, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.GetWeekdayShortName(weekday), x+float64(dayWidth)/2, y, 0.5, -0.4)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawEntry рисует одно занятие
func drawEntry(dc *gg.Context, r *model.Reservation, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := r.StartTime.Duration().Hours()
	endHour := r.EndTime.Duration().Hours()

	entryY := y + (startHour-float64(hours.start))*cellHeight
	entryHeight := max((endHour-startHour)*cellHeight, minEntryHeight)

	fill := entryColor(r)
	entryWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(entryShadow)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, entryY+2+shadowOffset, entryWidth, entryHeight-4, entryRadius)
	dc.Fill()

	// Основной блок
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, entryY+2, entryWidth, entryHeight-4, entryRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, entryY+2, entryWidth, entryHeight-4, entryRadius)
	dc.Stroke()

	txtX := x + dayPaddingX + 8
	txtY := entryY + 18

	loadFont(dc, entryFontSize, FontStyleBold)
	dc.SetColor(entryTextColor)
	dc.DrawStringAnchored(formatting.FormatTimeRange(r.StartTime, r.EndTime), txtX, txtY, 0, 0)

	// Предмет и участники, если есть место
	lines := []string{r.SubjectID, r.TeacherID + " · " + r.GroupID}
	if room, ok := r.Room(); ok {
		lines = append(lines, room)
	}

	loadFont(dc, entrySubFontSize, FontStyleDefault)
	for i, line := range lines {
		lineY := txtY + float64(i+1)*16
		if lineY > entryY+entryHeight-6 || line == "" {
			continue
		}
		dc.DrawStringAnchored(truncate(line, maxLabelRunes), txtX, lineY, 0, 0)
	}
}

// entryColor выбирает цвет занятия по предмету. Занятия без аудитории серые
func entryColor(r *model.Reservation) color.RGBA {
	if _, ok := r.Room(); !ok {
		return entryNoRoomFill
	}
	var h uint32
	for _, c := range r.SubjectID {
		h = h*31 + uint32(c)
	}
	return entryPalette[h%uint32(len(entryPalette))]
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
