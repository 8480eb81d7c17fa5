package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ImportProductsFromExcel bulk-creates or updates the calling seller's
// products from an uploaded sheet. Imported products re-enter moderation.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			description := get(2)
			salePrice, err1 := strconv.ParseFloat(get(3), 64)
			regularPrice, _ := strconv.ParseFloat(get(4), 64)
			category := get(5)
			stock, _ := strconv.ParseFloat(get(6), 64)
			weight, _ := strconv.ParseFloat(get(7), 64)
			images := get(8)

			if name == "" || err1 != nil || salePrice <= 0 {
				skippedCount++
				continue
			}

			product := models.Product{
				SellerID:     sellerID,
				Name:         name,
				Description:  description,
				SalePrice:    salePrice,
				RegularPrice: regularPrice,
				Category:     category,
				Stock:        int(stock),
				Weight:       weight,
				Images:       models.ResolveImages(images).JSON(),
				Approval:     models.ApprovalPending,
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					res := db.Model(&models.Product{}).
						Where("id = ? AND seller_id = ?", id, sellerID).
						Updates(map[string]interface{}{
							"name":          product.Name,
							"description":   product.Description,
							"sale_price":    product.SalePrice,
							"regular_price": product.RegularPrice,
							"category":      product.Category,
							"weight":        product.Weight,
							"images":        product.Images,
							"approval":      models.ApprovalPending,
						})
					if res.Error == nil && res.RowsAffected > 0 {
						updatedCount++
						continue
					}
				}
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

// ExportProductsToExcel downloads the calling seller's products as a sheet.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetString("user_id")

		var products []models.Product
		if err := db.Where("seller_id = ?", sellerID).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Description", "SalePrice", "RegularPrice",
			"Category", "Stock", "Weight", "Images", "Approval", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			imageSet := models.ParseImageColumn(p.Images)
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.SalePrice)
			row.AddCell().SetValue(p.RegularPrice)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.Weight)
			row.AddCell().SetValue(strings.Join(imageSet.URLs, ","))
			row.AddCell().SetValue(string(p.Approval))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
