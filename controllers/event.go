package controllers

import (
	"EventManagement/collections"
	"EventManagement/utils"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetEvent trả chi tiết sự kiện kèm danh sách loại vé và số lượng còn
// lại, dùng cho trang bán vé.
func GetEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	var eventEntry collections.Event
	if err := eventEntry.FindByID(c.Request.Context(), eventID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusNotFound, "Không tìm thấy sự kiện!", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "", eventEntry, nil)
}

type ticketTypeAvailability struct {
	ID                primitive.ObjectID `json:"id"`
	Name              string             `json:"name"`
	Price             int64              `json:"price"`
	AvailableQuantity int                `json:"available_quantity"`
	OnSale            bool               `json:"on_sale"`
}

// GetEventAvailability trả nhanh tình trạng mở bán của từng loại vé.
func GetEventAvailability(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	var eventEntry collections.Event
	if err := eventEntry.FindByID(c.Request.Context(), eventID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusNotFound, "Không tìm thấy sự kiện!", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	now := time.Now()
	availability := make([]ticketTypeAvailability, 0, len(eventEntry.TicketTypes))
	for _, tt := range eventEntry.TicketTypes {
		availability = append(availability, ticketTypeAvailability{
			ID:                tt.ID,
			Name:              tt.Name,
			Price:             tt.Price,
			AvailableQuantity: tt.AvailableQuantity,
			OnSale:            tt.Active && tt.SaleWindowOpen(now) && tt.AvailableQuantity > 0,
		})
	}

	utils.ResponseSuccess(c, http.StatusOK, "", availability, nil)
}
