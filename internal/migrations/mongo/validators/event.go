package validators

import (
	"eventbook/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
)

var nonEmptyString = bson.M{
	"bsonType":  "string",
	"minLength": 1,
}

var nonEmptyStringArray = bson.M{
	"bsonType": "array",
	"minItems": 1,
	"items":    nonEmptyString,
}

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"slug",
			"description",
			"overview",
			"image",
			"venue",
			"location",
			"date",
			"time",
			"mode",
			"audience",
			"agenda",
			"organizer",
			"tags",
			"createdAt",
			"updatedAt",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title":       nonEmptyString,
			"description": nonEmptyString,
			"overview":    nonEmptyString,
			"image":       nonEmptyString,
			"venue":       nonEmptyString,
			"location":    nonEmptyString,
			"audience":    nonEmptyString,
			"organizer":   nonEmptyString,

			"slug": bson.M{
				"bsonType": "string",
				"pattern":  "^[a-z0-9]+(-[a-z0-9]+)*$",
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"mode": bson.M{
				"bsonType": "string",
				"enum":     config.EventModes,
			},

			"agenda": nonEmptyStringArray,
			"tags":   nonEmptyStringArray,

			"createdAt": bson.M{
				"bsonType": "date",
			},

			"updatedAt": bson.M{
				"bsonType": "date",
			},
		},
	},
}
