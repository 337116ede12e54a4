package main

import (
	"github.com/alphadeveloper12/dosta-backend/internal/config"
	"github.com/alphadeveloper12/dosta-backend/internal/constants"
	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
	"github.com/alphadeveloper12/dosta-backend/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 演示用户
	user := models.User{
		Email:  "demo@dosta.app",
		Name:   "Demo User",
		Phone:  "+971500000000",
		Status: constants.UserStatusActive,
	}
	var existingUser models.User
	if err := models.DB.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Fatalf("Failed to create demo user: %v", err)
		}
		stdLog.Printf("Created user: %s", user.Email)
	} else {
		user = existingUser
		stdLog.Printf("User already exists: %s", user.Email)
	}

	// 售货点与取货时段
	locations := []models.VendingLocation{
		{Name: "Marina Walk", MachineUUID: "dosta-machine-001", Address: "Dubai Marina, Tower 3", IsActive: true, SortOrder: 1},
		{Name: "JLT Cluster D", MachineUUID: "dosta-machine-002", Address: "Jumeirah Lake Towers", IsActive: true, SortOrder: 2},
	}
	for i := range locations {
		loc := &locations[i]
		var existing models.VendingLocation
		if err := models.DB.Where("machine_uuid = ?", loc.MachineUUID).First(&existing).Error; err != nil {
			if err := models.DB.Create(loc).Error; err != nil {
				stdLog.Printf("Failed to create location %s: %v", loc.Name, err)
				continue
			}
			stdLog.Printf("Created location: %s", loc.Name)
		} else {
			*loc = existing
			stdLog.Printf("Location already exists: %s", loc.Name)
		}

		slots := []models.PickupTimeSlot{
			{LocationID: loc.ID, Label: "Breakfast", StartTime: "08:00", EndTime: "10:00", IsActive: true},
			{LocationID: loc.ID, Label: "Lunch", StartTime: "12:00", EndTime: "14:00", IsActive: true},
			{LocationID: loc.ID, Label: "Dinner", StartTime: "18:00", EndTime: "20:00", IsActive: true},
		}
		for _, slot := range slots {
			var existingSlot models.PickupTimeSlot
			if err := models.DB.Where("location_id = ? AND label = ?", slot.LocationID, slot.Label).First(&existingSlot).Error; err != nil {
				if err := models.DB.Create(&slot).Error; err != nil {
					stdLog.Printf("Failed to create time slot %s: %v", slot.Label, err)
				}
			}
		}
	}

	// 菜单项（通过规范化名称挂接主数据）
	menuItems := []models.MenuItem{
		{Name: "Chicken Biryani", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(25.5)), Heated: true, IsActive: true,
			Description: "Fragrant basmati rice with spiced chicken"},
		{Name: "Greek Salad", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(18.0)), IsActive: true,
			Description: "Feta, olives and fresh vegetables"},
		{Name: "Falafel Wrap", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(15.0)), Heated: true, IsActive: true,
			Description: "Crispy falafel with tahini sauce"},
		{Name: "Overnight Oats", Price: models.NewMoneyFromDecimal(decimal.NewFromFloat(12.0)), IsActive: true,
			Description: "Oats with chia seeds and berries"},
	}
	catalog := service.NewCatalogService(
		repository.NewMasterItemRepository(models.DB),
		repository.NewMenuItemRepository(models.DB),
	)
	for i := range menuItems {
		item := &menuItems[i]
		var existing models.MenuItem
		if err := models.DB.Where("name = ?", item.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(item).Error; err != nil {
				stdLog.Printf("Failed to create menu item %s: %v", item.Name, err)
				continue
			}
			stdLog.Printf("Created menu item: %s", item.Name)
		} else {
			*item = existing
			stdLog.Printf("Menu item already exists: %s", item.Name)
		}
		if _, err := catalog.LinkOrCreateMasterItem(item); err != nil {
			stdLog.Printf("Failed to link master item for %s: %v", item.Name, err)
		}
	}

	// 开发调试用 JWT
	token, expiresAt, err := service.GenerateUserToken(cfg.JWT, &user)
	if err != nil {
		stdLog.Printf("Failed to generate dev token: %v", err)
	} else {
		stdLog.Printf("Dev JWT for %s (expires %s):", user.Email, expiresAt.Format("2006-01-02 15:04:05"))
		stdLog.Printf("  %s", token)
	}

	stdLog.Println("Seed completed")
}
