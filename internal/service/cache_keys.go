package service

import "fmt"

// Nombres de cache para métricas
const (
	cacheRecs  = "recommendations"
	cacheTrust = "trust"
)

func recCacheKey(userID int) string {
	return fmt.Sprintf("rec:user:%d", userID)
}

func trustCacheKey(movieID int) string {
	return fmt.Sprintf("trust:movie:%d", movieID)
}
