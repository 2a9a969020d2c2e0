package hotel

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the hotel catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new hotel handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public catalog routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hotels := r.Group("/hotels")
	{
		hotels.GET("", h.ListHotels)
		hotels.GET("/:id", h.GetHotel)
		hotels.GET("/:id/rooms", h.ListRoomTypes)
		hotels.GET("/:id/images", h.ListImages)
	}

	r.GET("/amenities", h.ListAmenities)

	packages := r.Group("/packages")
	{
		packages.GET("", h.ListPackages)
		packages.GET("/:id", h.GetPackage)
	}
}

// RegisterAdminRoutes registers the admin catalog routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	hotels := r.Group("/hotels")
	{
		hotels.POST("", h.CreateHotel)
		hotels.PUT("/:id", h.UpdateHotel)
		hotels.DELETE("/:id", h.DeleteHotel)
		hotels.POST("/:id/rooms", h.CreateRoomType)
		hotels.POST("/:id/images", h.UploadImage)
	}

	rooms := r.Group("/rooms")
	{
		rooms.PUT("/:id", h.UpdateRoomType)
		rooms.DELETE("/:id", h.DeleteRoomType)
	}

	amenities := r.Group("/amenities")
	{
		amenities.POST("", h.CreateAmenity)
		amenities.DELETE("/:id", h.DeleteAmenity)
	}

	packages := r.Group("/packages")
	{
		packages.POST("", h.CreatePackage)
		packages.PUT("/:id", h.UpdatePackage)
		packages.DELETE("/:id", h.DeletePackage)
	}

	r.DELETE("/images/:id", h.DeleteImage)
}

// ListHotels returns a paginated list of active hotels.
//
//	@Summary	List hotels
//	@Tags		Hotel
//	@Produce	json
//	@Param		city	query		string	false	"Filter by city"
//	@Param		country	query		string	false	"Filter by country"
//	@Success	200		{object}	HotelListResponse
//	@Router		/hotels [get]
func (h *Handler) ListHotels(c *gin.Context) {
	var filter HotelFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pagination := NewPagination()
	if err := c.ShouldBindQuery(pagination); err != nil || pagination.Page < 1 {
		pagination = NewPagination()
	}

	hotels, total, err := h.service.ListHotels(c.Request.Context(), &filter, pagination)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, HotelListResponse{
		Hotels:   hotels,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
}

// GetHotel returns a hotel by ID.
func (h *Handler) GetHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	hotel, err := h.service.GetHotel(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hotel)
}

// CreateHotel creates a new hotel.
func (h *Handler) CreateHotel(c *gin.Context) {
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hotel, err := h.service.CreateHotel(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hotel)
}

// UpdateHotel updates a hotel.
func (h *Handler) UpdateHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	var req UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hotel, err := h.service.UpdateHotel(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hotel)
}

// DeleteHotel soft deletes a hotel.
func (h *Handler) DeleteHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	if err := h.service.DeleteHotel(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Hotel deleted"})
}

// --- Room type handlers ---

// ListRoomTypes returns the room types of a hotel.
func (h *Handler) ListRoomTypes(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	roomTypes, err := h.service.ListRoomTypes(c.Request.Context(), hotelID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room_types": roomTypes})
}

// CreateRoomType adds a room type to a hotel.
func (h *Handler) CreateRoomType(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	var req CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomType, err := h.service.CreateRoomType(c.Request.Context(), hotelID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, roomType)
}

// UpdateRoomType updates a room type.
func (h *Handler) UpdateRoomType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room type id"})
		return
	}

	var req UpdateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomType, err := h.service.UpdateRoomType(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, roomType)
}

// DeleteRoomType deletes a room type.
func (h *Handler) DeleteRoomType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room type id"})
		return
	}

	if err := h.service.DeleteRoomType(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Room type deleted"})
}

// --- Amenity handlers ---

// ListAmenities returns all amenities.
func (h *Handler) ListAmenities(c *gin.Context) {
	amenities, err := h.service.ListAmenities(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amenities": amenities})
}

// CreateAmenity creates a new amenity.
func (h *Handler) CreateAmenity(c *gin.Context) {
	var req CreateAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amenity, err := h.service.CreateAmenity(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, amenity)
}

// DeleteAmenity deletes an amenity.
func (h *Handler) DeleteAmenity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amenity id"})
		return
	}

	if err := h.service.DeleteAmenity(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Amenity deleted"})
}

// --- Package handlers ---

// ListPackages returns a paginated list of packages.
func (h *Handler) ListPackages(c *gin.Context) {
	var hotelID *uuid.UUID
	if raw := c.Query("hotel_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
			return
		}
		hotelID = &id
	}

	pagination := NewPagination()
	if err := c.ShouldBindQuery(pagination); err != nil || pagination.Page < 1 {
		pagination = NewPagination()
	}

	packages, total, err := h.service.ListPackages(c.Request.Context(), hotelID, true, pagination)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packages":  packages,
		"total":     total,
		"page":      pagination.Page,
		"page_size": pagination.PageSize,
	})
}

// GetPackage returns a package by ID.
func (h *Handler) GetPackage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
		return
	}

	pkg, err := h.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// CreatePackage creates a new travel package.
func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.service.CreatePackage(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// UpdatePackage updates a travel package.
func (h *Handler) UpdatePackage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.service.UpdatePackage(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// DeletePackage deletes a travel package.
func (h *Handler) DeletePackage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
		return
	}

	if err := h.service.DeletePackage(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Package deleted"})
}

// --- Image handlers ---

// UploadImage uploads an image for a hotel.
func (h *Handler) UploadImage(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image file"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	image, err := h.service.UploadImage(c.Request.Context(), hotelID, file, fileHeader.Size, contentType)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

// ListImages returns the images of a hotel with presigned URLs.
func (h *Handler) ListImages(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hotel id"})
		return
	}

	images, err := h.service.ListImages(c.Request.Context(), hotelID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

// DeleteImage deletes a hotel image.
func (h *Handler) DeleteImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Image deleted"})
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrHotelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "hotel_not_found", "message": "Hotel not found"})
	case errors.Is(err, ErrRoomTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room_type_not_found", "message": "Room type not found"})
	case errors.Is(err, ErrAmenityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "amenity_not_found", "message": "Amenity not found"})
	case errors.Is(err, ErrPackageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "package_not_found", "message": "Package not found"})
	case errors.Is(err, ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "image_not_found", "message": "Image not found"})
	case errors.Is(err, ErrAmenityExists):
		c.JSON(http.StatusConflict, gin.H{"error": "amenity_exists", "message": "Amenity already exists"})
	case errors.Is(err, ErrRoomTypeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_type_mismatch", "message": "Room type does not belong to the hotel"})
	case errors.Is(err, ErrInvalidStars):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_stars", "message": "Stars must be between 1 and 5"})
	case errors.Is(err, ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage_unavailable", "message": "Object storage is not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
