package pulse

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// weatherSummaries 预报描述，按温度无关的随机抽取
var weatherSummaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// WeatherForecast 单日预报
type WeatherForecast struct {
	Date         string `json:"date"`
	TemperatureC int    `json:"temperatureC"`
	TemperatureF int    `json:"temperatureF"`
	Summary      string `json:"summary"`
}

// handleWeatherForecast 随机生成未来五天的预报
func (s *Server) handleWeatherForecast(c *gin.Context) {
	forecast := make([]WeatherForecast, 5)
	now := time.Now()

	for i := range forecast {
		tempC := rand.Intn(75) - 20 // [-20, 54]
		forecast[i] = WeatherForecast{
			Date:         now.AddDate(0, 0, i+1).Format("2006-01-02"),
			TemperatureC: tempC,
			TemperatureF: 32 + int(float64(tempC)/0.5556),
			Summary:      weatherSummaries[rand.Intn(len(weatherSummaries))],
		}
	}

	c.JSON(http.StatusOK, forecast)
}
