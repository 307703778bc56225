package controllers

import (
	"context"

	"roomadmin/dto"
	"roomadmin/models"
	"roomadmin/response"

	"github.com/gin-gonic/gin"
)

type PackageManager interface {
	ListPackages(ctx context.Context, roomID int64) ([]models.RoomPackage, error)
	CreatePackage(ctx context.Context, roomID int64, req dto.PackageRequest) (*models.RoomPackage, error)
	UpdatePackage(ctx context.Context, id int64, req dto.PackageRequest) (*models.RoomPackage, error)
	DeletePackage(ctx context.Context, id int64) error
}

type PackageController struct {
	packages PackageManager
}

func NewPackageController(packages PackageManager) PackageController {
	return PackageController{packages: packages}
}

func (pc PackageController) ListPackages(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	pkgs, err := pc.packages.ListPackages(c.Request.Context(), roomID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pkgs)
}

func (pc PackageController) CreatePackage(c *gin.Context) {
	roomID, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu gói không hợp lệ")
		return
	}
	pkg, err := pc.packages.CreatePackage(c.Request.Context(), roomID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, pkg)
}

func (pc PackageController) UpdatePackage(c *gin.Context) {
	id, err := parseID(c, "packageId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu gói không hợp lệ")
		return
	}
	pkg, err := pc.packages.UpdatePackage(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pkg)
}

func (pc PackageController) DeletePackage(c *gin.Context) {
	id, err := parseID(c, "packageId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := pc.packages.DeletePackage(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
