package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"anesthesia-record-server/internal/handlers"
	"anesthesia-record-server/internal/integration"
	"anesthesia-record-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, log zerolog.Logger) *services.RecordService {
	// Initialize services and handlers
	inventoryService := services.NewInventoryService(db, log)
	recordService := services.NewRecordService(db, inventoryService, log)

	patientHandler := handlers.NewPatientHandler(db)
	referenceHandler := handlers.NewReferenceHandler(db)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	recordHandler := handlers.NewRecordHandler(recordService)
	integrationHandler := handlers.NewIntegrationHandler(integration.NewStubClient(), recordService)

	api := router.Group("/api")
	{
		patientRoutes := api.Group("/patients")
		{
			patientRoutes.GET("/:openDentalId", patientHandler.GetPatientByOpenDentalID)
			patientRoutes.POST("/", patientHandler.CreatePatient)
		}

		locationRoutes := api.Group("/locations")
		{
			locationRoutes.GET("/", referenceHandler.GetLocations)
			locationRoutes.POST("/", referenceHandler.CreateLocation)
		}

		providerRoutes := api.Group("/providers")
		{
			providerRoutes.GET("/", referenceHandler.GetProviders)
			providerRoutes.POST("/", referenceHandler.CreateProvider)
		}

		medicationRoutes := api.Group("/medications")
		{
			medicationRoutes.GET("/", referenceHandler.GetMedications)
			medicationRoutes.POST("/", referenceHandler.CreateMedication)
		}

		inventoryRoutes := api.Group("/inventory")
		{
			inventoryRoutes.GET("/location/:locationId", inventoryHandler.GetInventoryByLocation)
			inventoryRoutes.POST("/", inventoryHandler.AddInventory)
		}

		recordRoutes := api.Group("/records")
		{
			recordRoutes.GET("/:id", recordHandler.GetRecord)
			recordRoutes.POST("/", recordHandler.CreateRecord)
			recordRoutes.PUT("/:id", recordHandler.UpdateRecord)

			// Append-only sub-resources; the record id comes from the path
			recordRoutes.POST("/:id/medications/", recordHandler.AddMedicationAdministration)
			recordRoutes.POST("/:id/vitals/", recordHandler.AddVitalSign)

			recordRoutes.GET("/:id/export/markdown", recordHandler.ExportMarkdown)
			recordRoutes.GET("/:id/export/json", recordHandler.ExportJSON)
		}

		// Open Dental integration stubs
		openDentalRoutes := api.Group("/open-dental")
		{
			openDentalRoutes.GET("/patient/:patientId", integrationHandler.GetOpenDentalPatient)
			openDentalRoutes.POST("/push-record/:id", integrationHandler.PushRecordToOpenDental)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	return recordService
}
