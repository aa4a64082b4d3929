package adminapi

import (
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type systemStatus struct {
	Hostname      string  `json:"hostname"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemPercent    float64 `json:"mem_percent"`
	DatabaseType  string  `json:"database_type"`
}

func registerOverviewRoutes() {
	webserver.ApiGET("/store/overview", getOverview)
	webserver.ApiGET("/store/status", getStatus)
	webserver.ApiGET("/store/oprlogs", listOprLogs)
}

// getOverview serves the sales report: user and catalog counts, revenue,
// best seller and the per-title sales breakdown.
func getOverview(c echo.Context) error {
	overview, err := webserver.App().AdminService().BuildOverview(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, overview)
}

// getStatus reports host health for the admin dashboard header.
func getStatus(c echo.Context) error {
	status := systemStatus{DatabaseType: webserver.App().Config().Database.Type}

	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
		status.UptimeSeconds = info.Uptime
	}
	if percents, err := cpu.Percent(time.Millisecond*200, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemPercent = vm.UsedPercent
	}

	return ok(c, status)
}

// listOprLogs serves the admin action audit trail. Only available on the
// database backend; the embedded store answers with an empty page.
func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := webserver.App().DB()
	if db == nil {
		return paged(c, []domain.SysOprLog{}, 0, page, pageSize)
	}

	query := db.Model(&domain.SysOprLog{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return failErr(c, err)
	}

	var rows []domain.SysOprLog
	if err := query.Order("opt_time DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return failErr(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}
