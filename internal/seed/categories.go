package seed

import (
	"udacitrivia/internal/service"
	"udacitrivia/pkg/logger"
)

func EnsureDefaultCategories(categoryService *service.CategoryService) {
	if categoryService == nil {
		return
	}

	created, err := categoryService.EnsureDefaults()
	if err != nil {
		logger.Error(err, "Failed to ensure default categories", nil)
		return
	}

	if created > 0 {
		logger.Info("Created default categories", map[string]interface{}{"count": created})
	} else {
		logger.Debug("Categories already present", nil)
	}
}
