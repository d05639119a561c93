package repository

import "gorm.io/gorm"

// paginate 分页 scope；pageSize<=0 表示不分页，页码小于 1 按第 1 页处理
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// findPage 统计总数后读取一页；order 在分页之后追加排序与预加载
func findPage[T any](query *gorm.DB, page, pageSize int, order func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0)
	if total == 0 {
		return rows, 0, nil
	}
	q := query.Scopes(paginate(page, pageSize))
	if order != nil {
		q = order(q)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
